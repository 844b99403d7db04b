package usecase

import (
	"context"
	"net/http"

	"agora/internal/domain/model"
	repo "agora/internal/repository"
)

// 認可の判定を1箇所に集める。ビジネス単位のロールは
// business_associationsの結合から毎回引き直し、セッションには持たせない。
type AuthzService struct {
	associations repo.AssociationRepository
}

func NewAuthzService(associations repo.AssociationRepository) *AuthzService {
	return &AuthzService{associations: associations}
}

// 商品の属するビジネスのアクティブなSellerでなければ403
func (s *AuthzService) RequireProductSeller(ctx context.Context, username string, productID int64) error {
	ok, err := s.associations.CanEditProduct(ctx, username, productID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return NewHTTPError(http.StatusForbidden, "you do not have permission to manage this product")
	}
	return nil
}

// ビジネスのアクティブなAdministratorでなければ403
func (s *AuthzService) RequireBusinessAdministrator(ctx context.Context, username string, businessID int64) error {
	ok, err := s.associations.HasActiveRole(ctx, username, businessID, model.RoleAdministrator)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return NewHTTPError(http.StatusForbidden, "only administrators can manage this business")
	}
	return nil
}

// 注文に自ビジネスの商品が含まれていなければ403
func (s *AuthzService) RequireOrderSeller(ctx context.Context, username string, orderID int64) error {
	ok, err := s.associations.CanManageOrder(ctx, username, orderID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return NewHTTPError(http.StatusForbidden, "you do not have permission to manage this order")
	}
	return nil
}

// Sellerとして関連するビジネスID（無ければ403）
func (s *AuthzService) SellerBusinessID(ctx context.Context, username string) (int64, error) {
	id, err := s.associations.SellerBusinessID(ctx, username)
	if err == repo.ErrNotFound {
		return 0, NewHTTPError(http.StatusForbidden, "no active seller association")
	}
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return id, nil
}

// 閲覧者がこのビジネスのアクティブな関係者か（下書き商品の可視判定）
func (s *AuthzService) IsBusinessAssociate(ctx context.Context, username string, businessID int64) bool {
	if username == "" {
		return false
	}
	seller, err := s.associations.HasActiveRole(ctx, username, businessID, model.RoleSeller)
	if err == nil && seller {
		return true
	}
	admin, err := s.associations.HasActiveRole(ctx, username, businessID, model.RoleAdministrator)
	return err == nil && admin
}
