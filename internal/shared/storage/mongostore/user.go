package mongostore

import (
	"context"
	"time"

	"jobboard/internal/shared/model"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) UpdateUserRole(ctx context.Context, id string, role model.UserRole) error {
	return updateFields(ctx, s.col(ColUsers), id, bson.D{
		{Key: "role", Value: role},
		{Key: "updated_at", Value: time.Now().UTC()},
	})
}

func (s *Store) ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	f := bson.D{}
	if filter.Role != "" {
		f = append(f, bson.E{Key: "role", Value: filter.Role})
	}
	return findMany[model.User](ctx, s.col(ColUsers), f, newestFirst())
}

// userSummaries 批量解析用户摘要
func (s *Store) userSummaries(ctx context.Context, ids []string) (map[string]*model.UserSummary, error) {
	return findByIDs(ctx, s.col(ColUsers), uniqueStrings(ids), func(u *model.UserSummary) string { return u.ID })
}
