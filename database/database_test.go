package database

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "portfolio.db"),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func addUser(t *testing.T, d Database, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	require.NoError(t, d.UserRepo().Add(context.Background(), u))
	return u
}

func TestUserRepoLookups(t *testing.T) {
	d := New(openTestDB(t))
	ctx := context.Background()
	alice := addUser(t, d, "alice")

	got, err := d.UserRepo().FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)

	got, err = d.UserRepo().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = d.UserRepo().FindByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = d.UserRepo().Add(ctx, &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errs.NewDatabaseError("create", "user", err).StatusCode)
}

func TestOwnedRepoCRUD(t *testing.T) {
	d := New(openTestDB(t))
	ctx := context.Background()
	alice := addUser(t, d, "alice")
	repo := d.ProjectRepo()

	p := &models.Project{
		Title:        "Portfolio",
		Description:  "Personal site",
		Technologies: models.StringList{"Go", "React"},
		UserID:       alice.ID,
	}
	require.NoError(t, repo.Add(ctx, p))
	require.NotZero(t, p.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.StringList{"Go", "React"}, all[0].Technologies)
	assert.Equal(t, "General", all[0].Category)
	assert.NotNil(t, all[0].Features)

	p.Title = "Renamed"
	require.NoError(t, repo.Update(ctx, p))
	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Title)

	n, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	p.Title = "Ghost"
	err = repo.Update(ctx, p)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, http.StatusNotFound, errs.NewDatabaseError("update", "project", err).StatusCode)
	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOwnedRepoUpdateWritesZeroValues(t *testing.T) {
	d := New(openTestDB(t))
	ctx := context.Background()
	alice := addUser(t, d, "alice")

	post := &models.BlogPost{Title: "Hello", Content: "Body", Date: "2024", Featured: true, Views: 9, UserID: alice.ID}
	require.NoError(t, d.BlogPostRepo().Add(ctx, post))

	post.Featured, post.Views, post.Image = false, 0, ""
	require.NoError(t, d.BlogPostRepo().Update(ctx, post))

	got, err := d.BlogPostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Featured)
	assert.Zero(t, got.Views)
	assert.Equal(t, alice.ID, got.UserID)
}

func TestFindAllEmptyIsNotNil(t *testing.T) {
	d := New(openTestDB(t))
	rows, err := d.BlogPostRepo().FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestOwnedRepoRejectsUnknownOwner(t *testing.T) {
	d := New(openTestDB(t))
	err := d.ProgrammingSkillRepo().Add(context.Background(), &models.ProgrammingSkill{
		Name: "Go", Level: "Expert", Category: "Backend", UserID: 4242,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errs.NewDatabaseError("create", "programming skill", err).StatusCode)
}

func TestBlogPostDefaults(t *testing.T) {
	d := New(openTestDB(t))
	ctx := context.Background()
	alice := addUser(t, d, "alice")

	post := &models.BlogPost{Title: "Hello", Content: "Body", Date: "2024-01-01", UserID: alice.ID, Views: 12}
	require.NoError(t, d.BlogPostRepo().Add(ctx, post))

	got, err := d.BlogPostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Uncategorized", got.Category)
	assert.Equal(t, "5 min read", got.ReadTime)
	assert.Equal(t, "Unknown Author", got.AuthorName)
	assert.Equal(t, 12, got.Views)
	assert.Equal(t, models.StringList{}, got.Tags)
}

func TestMigrateNormalizesLegacyLists(t *testing.T) {
	db := openTestDB(t)
	d := New(db)
	ctx := context.Background()
	alice := addUser(t, d, "alice")

	p := &models.Project{Title: "Old", Description: "Imported", UserID: alice.ID}
	require.NoError(t, d.ProjectRepo().Add(ctx, p))
	require.NoError(t, db.Exec("UPDATE projects SET technologies = ? WHERE id = ?", "Go, React", p.ID).Error)

	post := &models.BlogPost{Title: "Old", Content: "Body", Date: "2023", UserID: alice.ID}
	require.NoError(t, d.BlogPostRepo().Add(ctx, post))
	require.NoError(t, db.Exec("UPDATE blog_posts SET tags = ? WHERE id = ?", `"go,sql"`, post.ID).Error)

	work := &models.WorkExperience{Title: "Dev", Company: "Acme", Location: "Remote", Date: "2020", Description: "Code", UserID: alice.ID}
	require.NoError(t, d.WorkExperienceRepo().Add(ctx, work))
	require.NoError(t, db.Exec("UPDATE work_experiences SET achievements = NULL WHERE id = ?", work.ID).Error)

	require.NoError(t, Migrate(db))

	gotWork, err := d.WorkExperienceRepo().FindByID(ctx, work.ID)
	require.NoError(t, err)
	require.NotNil(t, gotWork)
	assert.NotNil(t, gotWork.Achievements)
	assert.Empty(t, gotWork.Achievements)

	var raw string
	require.NoError(t, db.Raw("SELECT technologies FROM projects WHERE id = ?", p.ID).Scan(&raw).Error)
	assert.Equal(t, `["Go","React"]`, raw)

	require.NoError(t, db.Raw("SELECT tags FROM blog_posts WHERE id = ?", post.ID).Scan(&raw).Error)
	assert.Equal(t, `["go","sql"]`, raw)

	n, err := normalizeListColumn(db, "projects", "technologies")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestModelsMatchMigratedColumns(t *testing.T) {
	db := openTestDB(t)
	assert.Zero(t, models.ReportColumnMismatches(db))
}

func TestPing(t *testing.T) {
	d := New(openTestDB(t))
	assert.NoError(t, d.Ping(context.Background()))
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Type: "oracle"})
	assert.Error(t, err)
}
