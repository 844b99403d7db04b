package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"agora/internal/domain/model"
	"agora/internal/infra/images"
	repo "agora/internal/repository"
)

// ビジネスの登録・編集・メンバー管理。承認（pending→active）はAdminUsecase側。
type BusinessUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
	store *images.Store
	authz *AuthzService
}

func NewBusinessUsecase(tx repo.TransactionManager, users repo.UserRepository, store *images.Store, authz *AuthzService) *BusinessUsecase {
	return &BusinessUsecase{tx: tx, users: users, store: store, authz: authz}
}

type BusinessInput struct {
	Name             string `json:"name"`
	Location         string `json:"location"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ShortDescription string `json:"short_description"`
	Details          string `json:"details"`
}

type MemberInput struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type BusinessOutput struct {
	model.Business
	Members []model.BusinessAssociation `json:"members,omitempty"`
}

// 画像の失敗は本体の更新を巻き戻さない。メッセージだけ添える。
type UpdateResult struct {
	Warning string `json:"warning,omitempty"`
}

func validateBusinessInput(in BusinessInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "business name is required")
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return NewHTTPError(http.StatusBadRequest, "invalid email address")
		}
	}
	return nil
}

// 登録。ビジネス本体と作成者のAdministrator関連を同一Txで作る。
// 新規はpendingで、Admin承認までカタログに出ない。
func (u *BusinessUsecase) Create(ctx context.Context, username string, in BusinessInput) (int64, error) {
	if err := validateBusinessInput(in); err != nil {
		return 0, err
	}

	var id int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		id, err = r.Businesses().Create(ctx, model.Business{
			Name:             strings.TrimSpace(in.Name),
			Location:         in.Location,
			Email:            in.Email,
			Phone:            in.Phone,
			ShortDescription: in.ShortDescription,
			Details:          in.Details,
			Status:           model.BusinessStatusPending,
		})
		if err == repo.ErrDuplicate {
			return NewHTTPError(http.StatusConflict, "business name already taken")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Associations().Create(ctx, model.BusinessAssociation{
			Username:   username,
			BusinessID: id,
			Role:       model.RoleAdministrator,
			IsActive:   true,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	return id, err
}

// 自分がアクティブに関連するビジネス（メンバー付き）
func (u *BusinessUsecase) GetMyBusiness(ctx context.Context, username string) (BusinessOutput, error) {
	var out BusinessOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		assoc, err := r.Associations().FindActiveForUser(ctx, username)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "no business found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		b, err := r.Businesses().FindByID(ctx, assoc.BusinessID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		members, err := r.Associations().ListByBusinessID(ctx, assoc.BusinessID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = BusinessOutput{Business: b, Members: members}
		return nil
	})
	return out, err
}

// プロフィール更新。Administratorのみ。statusはここからは触れない。
func (u *BusinessUsecase) Update(ctx context.Context, username string, businessID int64, in BusinessInput) error {
	if err := validateBusinessInput(in); err != nil {
		return err
	}
	if err := u.authz.RequireBusinessAdministrator(ctx, username, businessID); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Businesses().FindByID(ctx, businessID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "business not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		b.Name = strings.TrimSpace(in.Name)
		b.Location = in.Location
		b.Email = in.Email
		b.Phone = in.Phone
		b.ShortDescription = in.ShortDescription
		b.Details = in.Details

		if _, err := r.Businesses().Update(ctx, b); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// ロゴ/バナーの差し替え。片方だけでもよい。画像処理に失敗した分は
// warningで返し、成功した分だけ保存する。
func (u *BusinessUsecase) UploadImages(ctx context.Context, username string, businessID int64, logo, banner []byte) (UpdateResult, error) {
	if err := u.authz.RequireBusinessAdministrator(ctx, username, businessID); err != nil {
		return UpdateResult{}, err
	}

	var (
		logoURL, bannerURL *string
		warnings           []string
	)
	if len(logo) > 0 {
		url, err := u.store.SaveBusinessLogo(logo, businessID)
		if err != nil {
			warnings = append(warnings, "logo: "+err.Error())
		} else {
			logoURL = &url
		}
	}
	if len(banner) > 0 {
		url, _, err := u.store.SaveBusinessBanner(banner, businessID)
		if err != nil {
			warnings = append(warnings, "banner: "+err.Error())
		} else {
			bannerURL = &url
		}
	}

	if logoURL == nil && bannerURL == nil {
		if len(warnings) > 0 {
			return UpdateResult{}, NewHTTPError(http.StatusBadRequest, strings.Join(warnings, "; "))
		}
		return UpdateResult{}, NewHTTPError(http.StatusBadRequest, "no image supplied")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Businesses().UpdateImageURLs(ctx, businessID, logoURL, bannerURL); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Warning: strings.Join(warnings, "; ")}, nil
}

// メンバーの追加・ロール変更・無効化。Administratorのみ。
func (u *BusinessUsecase) UpsertMember(ctx context.Context, username string, businessID int64, in MemberInput) error {
	if err := u.authz.RequireBusinessAdministrator(ctx, username, businessID); err != nil {
		return err
	}

	role := model.AssociationRole(in.Role)
	if role != model.RoleAdministrator && role != model.RoleSeller {
		return NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	if in.Username == "" {
		return NewHTTPError(http.StatusBadRequest, "username is required")
	}
	// 自分の無効化は詰むので拒否
	if in.Username == username && !in.IsActive {
		return NewHTTPError(http.StatusBadRequest, "cannot deactivate yourself")
	}

	if _, err := u.users.FindByUsername(ctx, in.Username); err != nil {
		if err == repo.ErrUserNotFound {
			return NewHTTPError(http.StatusNotFound, "user not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Associations().Upsert(ctx, model.BusinessAssociation{
			Username:   in.Username,
			BusinessID: businessID,
			Role:       role,
			IsActive:   in.IsActive,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
