package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"agora/internal/domain/model"
	"agora/internal/infra/images"
	"agora/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func newBusinessUC(t *testing.T, s *fakeState, users *fakeUsers) *usecase.BusinessUsecase {
	t.Helper()
	authz := usecase.NewAuthzService(&fakeAssociations{s: s})
	return usecase.NewBusinessUsecase(&fakeTx{s: s}, users, images.NewStore(t.TempDir()), authz)
}

func TestBusinessUsecase_Create_PendingWithAdministrator(t *testing.T) {
	s := newFakeState()
	uc := newBusinessUC(t, s, newFakeUsers())

	id, err := uc.Create(context.Background(), "owner1", usecase.BusinessInput{
		Name:  "Beanhouse",
		Email: "hello@beanhouse.example",
	})
	assert.NoError(t, err)

	// 新規はpending
	assert.Equal(t, model.BusinessStatusPending, s.businesses[id].Status)

	// 作成者がAdministratorとして紐づく
	assert.Len(t, s.associations, 1)
	assert.Equal(t, "owner1", s.associations[0].Username)
	assert.Equal(t, model.RoleAdministrator, s.associations[0].Role)
	assert.True(t, s.associations[0].IsActive)
}

func TestBusinessUsecase_Create_DuplicateName(t *testing.T) {
	s := newFakeState()
	seedShop(s) // "Beanhouse"が既にある
	uc := newBusinessUC(t, s, newFakeUsers())

	_, err := uc.Create(context.Background(), "owner1", usecase.BusinessInput{Name: "Beanhouse"})
	assertErrContains(t, err, "already taken")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestBusinessUsecase_Create_StorageFailureIsNotConflict(t *testing.T) {
	s := newFakeState()
	s.businessCreateErr = assert.AnError // 一意制約以外のDB障害
	uc := newBusinessUC(t, s, newFakeUsers())

	_, err := uc.Create(context.Background(), "owner1", usecase.BusinessInput{Name: "Beanhouse"})
	assertErrContains(t, err, "db error")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
}

func TestBusinessUsecase_Update_NonAdministratorForbidden(t *testing.T) {
	s := newFakeState()
	businessID, _ := seedShop(s) // seller1はSellerでありAdministratorではない
	uc := newBusinessUC(t, s, newFakeUsers())

	err := uc.Update(context.Background(), "seller1", businessID, usecase.BusinessInput{Name: "Renamed"})
	assertErrContains(t, err, "only administrators")
}

func TestBusinessUsecase_UpsertMember_UnknownUser(t *testing.T) {
	s := newFakeState()
	businessID, _ := seedShop(s)
	s.associations = append(s.associations, model.BusinessAssociation{
		ID: s.id(), Username: "owner1", BusinessID: businessID,
		Role: model.RoleAdministrator, IsActive: true,
	})

	uc := newBusinessUC(t, s, newFakeUsers())

	err := uc.UpsertMember(context.Background(), "owner1", businessID, usecase.MemberInput{
		Username: "ghost", Role: "Seller", IsActive: true,
	})
	assertErrContains(t, err, "user not found")
}

func TestBusinessUsecase_UpsertMember_AddAndDeactivate(t *testing.T) {
	s := newFakeState()
	businessID, _ := seedShop(s)
	s.associations = append(s.associations, model.BusinessAssociation{
		ID: s.id(), Username: "owner1", BusinessID: businessID,
		Role: model.RoleAdministrator, IsActive: true,
	})
	users := newFakeUsers(&model.User{Username: "newseller", AccountType: model.AccountTypeSeller})

	uc := newBusinessUC(t, s, users)

	assert.NoError(t, uc.UpsertMember(context.Background(), "owner1", businessID, usecase.MemberInput{
		Username: "newseller", Role: "Seller", IsActive: true,
	}))

	// 同じユーザーを無効化（upsertで行は増えない）
	before := len(s.associations)
	assert.NoError(t, uc.UpsertMember(context.Background(), "owner1", businessID, usecase.MemberInput{
		Username: "newseller", Role: "Seller", IsActive: false,
	}))
	assert.Len(t, s.associations, before)

	found := false
	for _, a := range s.associations {
		if a.Username == "newseller" && a.BusinessID == businessID {
			found = true
			assert.False(t, a.IsActive)
		}
	}
	assert.True(t, found)
}

func TestBusinessUsecase_UpsertMember_SelfDeactivationRejected(t *testing.T) {
	s := newFakeState()
	businessID, _ := seedShop(s)
	s.associations = append(s.associations, model.BusinessAssociation{
		ID: s.id(), Username: "owner1", BusinessID: businessID,
		Role: model.RoleAdministrator, IsActive: true,
	})
	users := newFakeUsers(&model.User{Username: "owner1", AccountType: model.AccountTypeSeller})

	uc := newBusinessUC(t, s, users)

	err := uc.UpsertMember(context.Background(), "owner1", businessID, usecase.MemberInput{
		Username: "owner1", Role: "Administrator", IsActive: false,
	})
	assertErrContains(t, err, "cannot deactivate yourself")
}

func TestBusinessUsecase_UpsertMember_InvalidRole(t *testing.T) {
	s := newFakeState()
	businessID, _ := seedShop(s)
	s.associations = append(s.associations, model.BusinessAssociation{
		ID: s.id(), Username: "owner1", BusinessID: businessID,
		Role: model.RoleAdministrator, IsActive: true,
	})

	uc := newBusinessUC(t, s, newFakeUsers())

	err := uc.UpsertMember(context.Background(), "owner1", businessID, usecase.MemberInput{
		Username: "someone", Role: "Owner", IsActive: true,
	})
	assertErrContains(t, err, "invalid role")
}
