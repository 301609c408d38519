package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0x5c-0x200f/asterraIO-assignment/internal/domain/entity"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/domain/repository"
)

// DirectoryRepository issues parameterized statements against the users and
// hobbies tables inside a fixed schema namespace.
type DirectoryRepository struct {
	pool   *pgxpool.Pool
	schema string

	insertUser  string
	insertHobby string
	deleteUser  string
	listUsers   string
}

func NewDirectoryRepository(pool *pgxpool.Pool, schema string) *DirectoryRepository {
	r := &DirectoryRepository{pool: pool, schema: schema}
	r.insertUser = fmt.Sprintf(`
		INSERT INTO %s.users (first_name, last_name, address, phone_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, schema)
	r.insertHobby = fmt.Sprintf(`
		INSERT INTO %s.hobbies (user_id, hobby)
		VALUES ($1, $2)
	`, schema)
	r.deleteUser = fmt.Sprintf(`
		DELETE FROM %s.users
		WHERE id = $1
	`, schema)
	r.listUsers = fmt.Sprintf(`
		SELECT u.id, u.first_name, u.last_name, u.address, u.phone_number, h.hobby
		FROM %s.users u
		LEFT JOIN %s.hobbies h ON u.id = h.user_id
		ORDER BY u.id, h.hobby
	`, schema, schema)
	return r
}

func (r *DirectoryRepository) CreateUser(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, r.insertUser, u.FirstName, u.LastName, u.Address, u.PhoneNumber)
	return row.Scan(&u.ID)
}

func (r *DirectoryRepository) AddHobby(ctx context.Context, userID int64, hobby string) error {
	_, err := r.pool.Exec(ctx, r.insertHobby, userID, hobby)
	return err
}

// DeleteUser removes the user row. A zero rows-affected result is not an
// error: the original surface returns the generic success message for
// missing ids as well.
func (r *DirectoryRepository) DeleteUser(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, r.deleteUser, id)
	return err
}

func (r *DirectoryRepository) ListUsers(ctx context.Context) ([]entity.UserAggregate, error) {
	rows, err := r.pool.Query(ctx, r.listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scanned []userRow
	for rows.Next() {
		var ur userRow
		if err := rows.Scan(&ur.id, &ur.firstName, &ur.lastName, &ur.address, &ur.phoneNumber, &ur.hobby); err != nil {
			return nil, err
		}
		scanned = append(scanned, ur)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return foldUserRows(scanned), nil
}

// userRow is one row of the joined read; hobby is nil for users without any
// hobby rows.
type userRow struct {
	id          int64
	firstName   string
	lastName    string
	address     string
	phoneNumber string
	hobby       *string
}

// foldUserRows groups joined rows by user id and accumulates a deduplicated,
// first-seen-ordered hobby list per user. Hobbies is always non-nil so fresh
// users serialize as "hobbies": [].
func foldUserRows(rows []userRow) []entity.UserAggregate {
	out := make([]entity.UserAggregate, 0, len(rows))
	index := make(map[int64]int, len(rows))
	seen := make(map[int64]map[string]struct{}, len(rows))

	for _, ur := range rows {
		i, ok := index[ur.id]
		if !ok {
			i = len(out)
			index[ur.id] = i
			seen[ur.id] = make(map[string]struct{})
			out = append(out, entity.UserAggregate{
				User: entity.User{
					ID:          ur.id,
					FirstName:   ur.firstName,
					LastName:    ur.lastName,
					Address:     ur.address,
					PhoneNumber: ur.phoneNumber,
				},
				Hobbies: []string{},
			})
		}
		if ur.hobby == nil {
			continue
		}
		if _, dup := seen[ur.id][*ur.hobby]; dup {
			continue
		}
		seen[ur.id][*ur.hobby] = struct{}{}
		out[i].Hobbies = append(out[i].Hobbies, *ur.hobby)
	}
	return out
}

var _ repository.Directory = (*DirectoryRepository)(nil)
