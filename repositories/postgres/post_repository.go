package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const postColumns = `id, user_id, content, attachments, COALESCE(attachment_count, 0), created_at`

// PostRepository implements the repositories.PostRepository interface
type PostRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *DB, logger *zap.Logger) repositories.PostRepository {
	return &PostRepository{
		db:     db,
		logger: logger,
	}
}

func scanPost(row interface{ Scan(...interface{}) error }) (*models.Post, error) {
	p := &models.Post{}
	var attachments []byte
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Content,
		&attachments,
		&p.AttachmentCount,
		&p.CreatedAt,
	)
	if len(attachments) > 0 {
		p.Attachments = json.RawMessage(attachments)
	}
	return p, err
}

// jsonArg converts optional JSON to a driver value, NULL when absent
func jsonArg(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

// List retrieves all posts, newest first
func (r *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	p, err := scanPost(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

// Create inserts a post authored by userID
func (r *PostRepository) Create(ctx context.Context, userID string, in *models.PostCreate) (*models.Post, error) {
	query := `
		INSERT INTO posts (user_id, content, attachments, attachment_count)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + postColumns

	p, err := scanPost(GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		userID,
		in.Content,
		jsonArg(in.Attachments),
		in.AttachmentCount,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	r.logger.Debug("post created", zap.String("id", p.ID), zap.String("user_id", userID))
	return p, nil
}

// Update applies a partial update and returns the stored row
func (r *PostRepository) Update(ctx context.Context, id string, update *models.PostUpdate) (*models.Post, error) {
	set := &setClause{}
	if update.Content != nil {
		set.add("content", *update.Content)
	}
	if len(update.Attachments) > 0 {
		set.add("attachments", []byte(update.Attachments))
	}
	if update.AttachmentCount != nil {
		set.add("attachment_count", *update.AttachmentCount)
	}
	if set.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := set.build("posts", id, postColumns)
	p, err := scanPost(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	r.logger.Debug("post updated", zap.String("id", id))
	return p, nil
}

// Delete removes a post
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("post deleted", zap.String("id", id))
	return nil
}

// CommentRepository implements the repositories.CommentRepository interface
type CommentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *DB, logger *zap.Logger) repositories.CommentRepository {
	return &CommentRepository{
		db:     db,
		logger: logger,
	}
}

const commentColumns = `id, post_id, user_id, parent_id, content, created_at`

func scanComment(row interface{ Scan(...interface{}) error }) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.ParentID, &c.Content, &c.CreatedAt)
	return c, err
}

// ListByPostIDs retrieves comments of the given posts, oldest first
func (r *CommentRepository) ListByPostIDs(ctx context.Context, postIDs []string) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)
	if len(postIDs) == 0 {
		return comments, nil
	}

	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = ANY($1::uuid[]) ORDER BY created_at ASC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}

// Create inserts a comment
func (r *CommentRepository) Create(ctx context.Context, postID, userID string, in *models.CommentCreate) (*models.Comment, error) {
	query := `
		INSERT INTO comments (post_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + commentColumns

	c, err := scanComment(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, postID, userID, in.ParentID, in.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	r.logger.Debug("comment created", zap.String("id", c.ID), zap.String("post_id", postID))
	return c, nil
}

// LikeRepository implements repositories.LikeRepository over one like table
type LikeRepository struct {
	db        *DB
	logger    *zap.Logger
	table     string
	targetCol string
}

// NewPostLikeRepository creates a repository over the likes table
func NewPostLikeRepository(db *DB, logger *zap.Logger) repositories.LikeRepository {
	return &LikeRepository{db: db, logger: logger, table: "likes", targetCol: "post_id"}
}

// NewCommentLikeRepository creates a repository over the comment_likes table
func NewCommentLikeRepository(db *DB, logger *zap.Logger) repositories.LikeRepository {
	return &LikeRepository{db: db, logger: logger, table: "comment_likes", targetCol: "comment_id"}
}

// ListByTargetIDs retrieves likes on the given posts or comments
func (r *LikeRepository) ListByTargetIDs(ctx context.Context, targetIDs []string) ([]*models.Like, error) {
	likes := make([]*models.Like, 0)
	if len(targetIDs) == 0 {
		return likes, nil
	}

	query := fmt.Sprintf(`SELECT %s, user_id FROM %s WHERE %s = ANY($1::uuid[])`, r.targetCol, r.table, r.targetCol)

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, pq.Array(targetIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		like := &models.Like{}
		if err := rows.Scan(&like.TargetID, &like.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table, err)
		}
		likes = append(likes, like)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table, err)
	}
	return likes, nil
}

// Exists reports whether userID likes targetID
func (r *LikeRepository) Exists(ctx context.Context, targetID, userID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND user_id = $2)`, r.table, r.targetCol)

	var exists bool
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, targetID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", r.table, err)
	}
	return exists, nil
}

// Add records a like
func (r *LikeRepository) Add(ctx context.Context, targetID, userID string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, user_id) VALUES ($1, $2)`, r.table, r.targetCol)

	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, targetID, userID); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", r.table, err)
	}
	return nil
}

// Remove deletes a like
func (r *LikeRepository) Remove(ctx context.Context, targetID, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND user_id = $2`, r.table, r.targetCol)

	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, targetID, userID); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", r.table, err)
	}
	return nil
}

// Count returns the number of likes on targetID
func (r *LikeRepository) Count(ctx context.Context, targetID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, r.table, r.targetCol)

	var count int
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, targetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table, err)
	}
	return count, nil
}
