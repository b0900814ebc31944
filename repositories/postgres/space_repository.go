package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ShadyM97/LearnHub-Backend/models"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const spaceColumns = `id, name, description, created_by, created_at`

// SpaceRepository implements the repositories.SpaceRepository interface
type SpaceRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSpaceRepository creates a new space repository
func NewSpaceRepository(db *DB, logger *zap.Logger) repositories.SpaceRepository {
	return &SpaceRepository{
		db:     db,
		logger: logger,
	}
}

func scanSpace(row interface{ Scan(...interface{}) error }) (*models.Space, error) {
	s := &models.Space{}
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedBy, &s.CreatedAt)
	return s, err
}

// List retrieves all spaces
func (r *SpaceRepository) List(ctx context.Context) ([]*models.Space, error) {
	query := `SELECT ` + spaceColumns + ` FROM spaces ORDER BY created_at DESC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query spaces: %w", err)
	}
	defer rows.Close()

	spaces := make([]*models.Space, 0)
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan space: %w", err)
		}
		spaces = append(spaces, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating space rows: %w", err)
	}
	return spaces, nil
}

// Create inserts a space
func (r *SpaceRepository) Create(ctx context.Context, createdBy string, in *models.SpaceCreate) (*models.Space, error) {
	query := `
		INSERT INTO spaces (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING ` + spaceColumns

	s, err := scanSpace(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, in.Name, in.Description, createdBy))
	if err != nil {
		return nil, fmt.Errorf("failed to create space: %w", err)
	}

	r.logger.Debug("space created", zap.String("id", s.ID), zap.String("created_by", createdBy))
	return s, nil
}

// MemberCounts counts members per space
func (r *SpaceRepository) MemberCounts(ctx context.Context, spaceIDs []string) (map[string]int, error) {
	return countBy(ctx, GetExecutor(ctx, r.db), "space_members", "space_id", spaceIDs)
}

// MemberSpaceIDs returns the IDs of the spaces userID belongs to
func (r *SpaceRepository) MemberSpaceIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT space_id FROM space_members WHERE user_id = $1`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}
	return ids, nil
}

// IsMember reports whether userID belongs to spaceID
func (r *SpaceRepository) IsMember(ctx context.Context, spaceID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM space_members WHERE space_id = $1 AND user_id = $2)`

	var exists bool
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, spaceID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// AddMember inserts a membership row
func (r *SpaceRepository) AddMember(ctx context.Context, member *models.SpaceMember) error {
	query := `INSERT INTO space_members (space_id, user_id, role) VALUES ($1, $2, $3)`

	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, member.SpaceID, member.UserID, member.Role); err != nil {
		return fmt.Errorf("failed to add space member: %w", err)
	}

	r.logger.Debug("space member added",
		zap.String("space_id", member.SpaceID),
		zap.String("user_id", member.UserID),
		zap.String("role", member.Role),
	)
	return nil
}

// ThreadRepository implements the repositories.ThreadRepository interface
type ThreadRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(db *DB, logger *zap.Logger) repositories.ThreadRepository {
	return &ThreadRepository{
		db:     db,
		logger: logger,
	}
}

const threadColumns = `id, space_id, title, created_by, created_at`

func scanThread(row interface{ Scan(...interface{}) error }) (*models.SpaceThread, error) {
	t := &models.SpaceThread{}
	err := row.Scan(&t.ID, &t.SpaceID, &t.Title, &t.CreatedBy, &t.CreatedAt)
	return t, err
}

// ListBySpace retrieves a space's threads, newest first
func (r *ThreadRepository) ListBySpace(ctx context.Context, spaceID string) ([]*models.SpaceThread, error) {
	query := `SELECT ` + threadColumns + ` FROM space_threads WHERE space_id = $1 ORDER BY created_at DESC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query threads: %w", err)
	}
	defer rows.Close()

	threads := make([]*models.SpaceThread, 0)
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan thread: %w", err)
		}
		threads = append(threads, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating thread rows: %w", err)
	}
	return threads, nil
}

// Create inserts a thread
func (r *ThreadRepository) Create(ctx context.Context, spaceID, createdBy string, in *models.SpaceThreadCreate) (*models.SpaceThread, error) {
	query := `
		INSERT INTO space_threads (space_id, title, created_by)
		VALUES ($1, $2, $3)
		RETURNING ` + threadColumns

	t, err := scanThread(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, spaceID, in.Title, createdBy))
	if err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	r.logger.Debug("thread created", zap.String("id", t.ID), zap.String("space_id", spaceID))
	return t, nil
}

// MessageCounts counts messages per thread
func (r *ThreadRepository) MessageCounts(ctx context.Context, threadIDs []string) (map[string]int, error) {
	return countBy(ctx, GetExecutor(ctx, r.db), "space_messages", "thread_id", threadIDs)
}

const messageColumns = `id, thread_id, user_id, content, attachments, COALESCE(attachment_count, 0), created_at`

func scanMessage(row interface{ Scan(...interface{}) error }) (*models.SpaceMessage, error) {
	m := &models.SpaceMessage{}
	var attachments []byte
	err := row.Scan(&m.ID, &m.ThreadID, &m.UserID, &m.Content, &attachments, &m.AttachmentCount, &m.CreatedAt)
	if len(attachments) > 0 {
		m.Attachments = json.RawMessage(attachments)
	}
	return m, err
}

// ListMessages retrieves a thread's messages, oldest first
func (r *ThreadRepository) ListMessages(ctx context.Context, threadID string) ([]*models.SpaceMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM space_messages WHERE thread_id = $1 ORDER BY created_at ASC`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.SpaceMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return messages, nil
}

// CreateMessage inserts a message
func (r *ThreadRepository) CreateMessage(ctx context.Context, threadID, userID string, in *models.SpaceMessageCreate) (*models.SpaceMessage, error) {
	query := `
		INSERT INTO space_messages (thread_id, user_id, content, attachments, attachment_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + messageColumns

	m, err := scanMessage(GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		threadID, userID, in.Content, jsonArg(in.Attachments), in.AttachmentCount))
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	r.logger.Debug("message created", zap.String("id", m.ID), zap.String("thread_id", threadID))
	return m, nil
}

// countBy returns row counts of table grouped by column for the given keys
func countBy(ctx context.Context, exec Executor, table, column string, keys []string) (map[string]int, error) {
	counts := make(map[string]int, len(keys))
	if len(keys) == 0 {
		return counts, nil
	}

	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM %s WHERE %s = ANY($1::uuid[]) GROUP BY %s`, column, table, column, column)

	rows, err := exec.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("failed to scan %s count: %w", table, err)
		}
		counts[key] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s counts: %w", table, err)
	}
	return counts, nil
}
