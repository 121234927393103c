// Queries from database/queries/competitors.sql.

package sqlc

import (
	"context"

	"github.com/google/uuid"
)

const getCompetitorByExternalUserID = `-- name: GetCompetitorByExternalUserID :one
SELECT id, external_user_id, external_player_id, slug, name, discriminator, bio, birthday, pronouns, city, state, country, social_handle, created_at, updated_at FROM competitor WHERE external_user_id = $1
`

func (q *Queries) GetCompetitorByExternalUserID(ctx context.Context, externalUserID *string) (Competitor, error) {
	row := q.db.QueryRow(ctx, getCompetitorByExternalUserID, externalUserID)
	var i Competitor
	err := row.Scan(
		&i.ID,
		&i.ExternalUserID,
		&i.ExternalPlayerID,
		&i.Slug,
		&i.Name,
		&i.Discriminator,
		&i.Bio,
		&i.Birthday,
		&i.Pronouns,
		&i.City,
		&i.State,
		&i.Country,
		&i.SocialHandle,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertCompetitor = `-- name: InsertCompetitor :one
INSERT INTO competitor (
    external_user_id, external_player_id, slug, name, discriminator, bio,
    birthday, pronouns, city, state, country, social_handle
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7, $8,
    $9, $10, $11, $12
)
RETURNING id, external_user_id, external_player_id, slug, name, discriminator, bio, birthday, pronouns, city, state, country, social_handle, created_at, updated_at
`

type InsertCompetitorParams struct {
	ExternalUserID   *string `json:"external_user_id"`
	ExternalPlayerID string  `json:"external_player_id"`
	Slug             string  `json:"slug"`
	Name             string  `json:"name"`
	Discriminator    string  `json:"discriminator"`
	Bio              string  `json:"bio"`
	Birthday         string  `json:"birthday"`
	Pronouns         string  `json:"pronouns"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	Country          string  `json:"country"`
	SocialHandle     string  `json:"social_handle"`
}

func (q *Queries) InsertCompetitor(ctx context.Context, arg InsertCompetitorParams) (Competitor, error) {
	row := q.db.QueryRow(ctx, insertCompetitor,
		arg.ExternalUserID,
		arg.ExternalPlayerID,
		arg.Slug,
		arg.Name,
		arg.Discriminator,
		arg.Bio,
		arg.Birthday,
		arg.Pronouns,
		arg.City,
		arg.State,
		arg.Country,
		arg.SocialHandle,
	)
	var i Competitor
	err := row.Scan(
		&i.ID,
		&i.ExternalUserID,
		&i.ExternalPlayerID,
		&i.Slug,
		&i.Name,
		&i.Discriminator,
		&i.Bio,
		&i.Birthday,
		&i.Pronouns,
		&i.City,
		&i.State,
		&i.Country,
		&i.SocialHandle,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateCompetitorProfile = `-- name: UpdateCompetitorProfile :one
UPDATE competitor SET
    external_player_id = $1,
    slug = $2,
    name = $3,
    discriminator = $4,
    bio = $5,
    birthday = $6,
    pronouns = $7,
    city = $8,
    state = $9,
    country = $10,
    social_handle = $11,
    updated_at = NOW()
WHERE id = $12 AND external_user_id = $13
RETURNING id, external_user_id, external_player_id, slug, name, discriminator, bio, birthday, pronouns, city, state, country, social_handle, created_at, updated_at
`

type UpdateCompetitorProfileParams struct {
	ExternalPlayerID string    `json:"external_player_id"`
	Slug             string    `json:"slug"`
	Name             string    `json:"name"`
	Discriminator    string    `json:"discriminator"`
	Bio              string    `json:"bio"`
	Birthday         string    `json:"birthday"`
	Pronouns         string    `json:"pronouns"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Country          string    `json:"country"`
	SocialHandle     string    `json:"social_handle"`
	ID               uuid.UUID `json:"id"`
	ExternalUserID   *string   `json:"external_user_id"`
}

func (q *Queries) UpdateCompetitorProfile(ctx context.Context, arg UpdateCompetitorProfileParams) (Competitor, error) {
	row := q.db.QueryRow(ctx, updateCompetitorProfile,
		arg.ExternalPlayerID,
		arg.Slug,
		arg.Name,
		arg.Discriminator,
		arg.Bio,
		arg.Birthday,
		arg.Pronouns,
		arg.City,
		arg.State,
		arg.Country,
		arg.SocialHandle,
		arg.ID,
		arg.ExternalUserID,
	)
	var i Competitor
	err := row.Scan(
		&i.ID,
		&i.ExternalUserID,
		&i.ExternalPlayerID,
		&i.Slug,
		&i.Name,
		&i.Discriminator,
		&i.Bio,
		&i.Birthday,
		&i.Pronouns,
		&i.City,
		&i.State,
		&i.Country,
		&i.SocialHandle,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
