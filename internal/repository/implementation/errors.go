package implementation

import (
	"errors"

	"notealog/pkg/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation = "23505"
	// folderNameIndex must match the uniqueIndex tag on model.Folder.Name.
	folderNameIndex = "idx_folders_name"
)

// translateError maps driver errors onto domain error kinds. Only the folder
// name index means a duplicate name; other unique violations pass through.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == folderNameIndex {
		return domain.Wrap(domain.ErrDuplicateName, op, err)
	}
	return err
}
