package repositories

import (
	"database/sql"
	"fmt"

	"pipecrm/internal/models"
)

type AttachmentRepository struct {
	db *sql.DB
}

func NewAttachmentRepository(db *sql.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

const attachmentSelect = `
	SELECT id, filename, original_name, mime, size, entity_type, entity_id, created_by, created_at
	FROM attachments
`

func scanAttachment(row interface{ Scan(...any) error }) (*models.Attachment, error) {
	var (
		a               models.Attachment
		originalName    sql.NullString
		mime, createdBy sql.NullString
		size            sql.NullInt64
	)
	err := row.Scan(&a.ID, &a.Filename, &originalName, &mime, &size, &a.EntityType, &a.EntityID, &createdBy, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.OriginalName = originalName.String
	a.Mime = mime.String
	a.Size = size.Int64
	a.CreatedBy = createdBy.String
	return &a, nil
}

func (r *AttachmentRepository) Create(a *models.Attachment) (int64, error) {
	var id int64
	err := r.db.QueryRow(
		`INSERT INTO attachments (filename, original_name, mime, size, entity_type, entity_id, created_by)
		 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		a.Filename,
		nullify(a.OriginalName),
		nullify(a.Mime),
		a.Size,
		a.EntityType,
		a.EntityID,
		nullify(a.CreatedBy),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("создание вложения: %w", err)
	}
	return id, nil
}

func (r *AttachmentRepository) GetByID(id int) (*models.Attachment, error) {
	attachment, err := scanAttachment(r.db.QueryRow(attachmentSelect+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("получение вложения по id: %w", err)
	}
	return attachment, nil
}

func (r *AttachmentRepository) ListByEntity(entityType string, entityID int) ([]*models.Attachment, error) {
	rows, err := r.db.Query(
		attachmentSelect+` WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at DESC`,
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("список вложений: %w", err)
	}
	defer rows.Close()

	var attachments []*models.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("чтение вложения: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (r *AttachmentRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("удаление вложения: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("удаление вложения: %w", err)
	}
	return affected > 0, nil
}
