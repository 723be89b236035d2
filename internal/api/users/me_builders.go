package users

import (
	"context"

	"craftshare/internal/domain/policy"
	"craftshare/internal/domain/users"

	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

func (h *Handler) BuildUserDTO(ctx context.Context, u users.User) UserDTO {
	var birth *string
	if u.BirthDate != nil {
		s := u.BirthDate.Format(dateLayout)
		birth = &s
	}
	return UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		AuthProvider: u.AuthProvider,
		BirthDate:    birth,
		Image:        h.images.URL(ctx, u.Image),
	}
}

func (h *Handler) BuildProfileDTO(ctx context.Context, u users.User) ProfileDTO {
	return ProfileDTO{
		ID:        u.ID,
		Username:  u.Username,
		Image:     h.images.URL(ctx, u.Image),
		CreatedAt: u.CreatedAt,
	}
}

// BuildStatsDTO counts followers, followings and posts concurrently.
func (h *Handler) BuildStatsDTO(ctx context.Context, userID uint) (StatsDTO, error) {
	var stats StatsDTO
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Followers, err = h.follows.CountFollowers(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.Following, err = h.follows.CountFollowing(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.Posts, err = h.posts.CountByUser(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return StatsDTO{}, err
	}
	return stats, nil
}

func BuildAccessDTO(g policy.Gate, u users.User) AccessDTO {
	return AccessDTO{
		Mature: g.IsMature(u.Viewer()),
		MinAge: g.Rules().AgeRestrictedContentAge,
	}
}
