package db

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/jimui/biblioteca/model"
)

//go:embed migration
var migrationFS embed.FS

// DB is the sqlite-backed driver.
type DB struct {
	db *sql.DB
	// sqlite allows a single writer, serialize writes ourselves to
	// avoid SQLITE_BUSY under concurrent handlers.
	lock sync.Mutex
}

func NewDB(dsn string) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("database path is required")
	}

	d, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	return &DB{db: d}, nil
}

func (d *DB) Ping() error {
	return d.db.Ping()
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Title; v != nil {
		where, args = append(where, "title = ?"), append(args, *v)
	}
	if v := find.Author; v != nil {
		where, args = append(where, "author = ?"), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "category = ?"), append(args, *v)
	}

	query := `
		SELECT
			id,
			title,
			author,
			category,
			summary,
			cover_url,
			content_url,
			created_ts
		FROM book
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts ASC, rowid ASC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Book, 0)
	for rows.Next() {
		var book model.Book
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Category,
			&book.Summary,
			&book.CoverURL,
			&book.ContentURL,
			&book.CreatedTs,
		); err != nil {
			return nil, err
		}
		list = append(list, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpsertBook(book *model.Book) (*model.Book, error) {
	stmt := `
		INSERT INTO book (id, title, author, category, summary, cover_url, content_url, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE
		SET
			title=excluded.title,
			author=excluded.author,
			category=excluded.category,
			summary=excluded.summary,
			cover_url=excluded.cover_url,
			content_url=excluded.content_url,
			created_ts=excluded.created_ts
		RETURNING id, title, author, category, summary, cover_url, content_url, created_ts
	`

	d.lock.Lock()
	defer d.lock.Unlock()
	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var b model.Book
	if err := tx.QueryRow(stmt,
		book.ID,
		book.Title,
		book.Author,
		book.Category,
		book.Summary,
		book.CoverURL,
		book.ContentURL,
		book.CreatedTs,
	).Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Category,
		&b.Summary,
		&b.CoverURL,
		&b.ContentURL,
		&b.CreatedTs,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &b, nil
}

func (d *DB) DeleteBook(id string) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	_, err := d.db.Exec(`DELETE FROM book WHERE id = ?`, id)
	return err
}

func (d *DB) ListCategories() ([]*model.Category, error) {
	rows, err := d.db.Query(`SELECT id, name FROM category ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Category, 0)
	for rows.Next() {
		var category model.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		list = append(list, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) UpsertCategory(category *model.Category) (*model.Category, error) {
	stmt := `
		INSERT INTO category (id, name)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE
		SET name=excluded.name
		RETURNING id, name
	`

	d.lock.Lock()
	defer d.lock.Unlock()

	var c model.Category
	if err := d.db.QueryRow(stmt, category.ID, category.Name).Scan(&c.ID, &c.Name); err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *DB) DeleteCategory(id string) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	_, err := d.db.Exec(`DELETE FROM category WHERE id = ?`, id)
	return err
}

func (d *DB) ListUsers(find *model.FindUser) ([]*model.User, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = ?"), append(args, *v)
	}
	if v := find.Role; v != nil {
		where, args = append(where, "role = ?"), append(args, *v)
	}

	// Here will return password_hash, so need to be careful.
	// The model never serializes it, but handlers should still only
	// hand out users through the store facade.
	query := `
		SELECT
			id,
			name,
			email,
			password_hash,
			role,
			favorites,
			reading_history,
			created_ts
		FROM user
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts ASC, rowid ASC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.User, 0)
	for rows.Next() {
		var user model.User
		var favorites, history string
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&favorites,
			&history,
			&user.CreatedTs,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(favorites), &user.Favorites); err != nil {
			return nil, errors.Wrap(err, "malformed favorites column")
		}
		if err := json.Unmarshal([]byte(history), &user.ReadingHistory); err != nil {
			return nil, errors.Wrap(err, "malformed reading_history column")
		}
		list = append(list, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) CreateUser(create *model.User) (*model.User, error) {
	favorites, history, err := marshalUserLists(create)
	if err != nil {
		return nil, err
	}

	stmt := `
		INSERT INTO user (id, name, email, password_hash, role, favorites, reading_history, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, name, email, password_hash, role, created_ts
	`

	d.lock.Lock()
	defer d.lock.Unlock()
	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var user model.User
	if err := tx.QueryRow(stmt,
		create.ID,
		create.Name,
		create.Email,
		create.PasswordHash,
		create.Role,
		favorites,
		history,
		create.CreatedTs,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedTs,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	user.Favorites = append([]string{}, create.Favorites...)
	user.ReadingHistory = append([]model.ReadingHistoryItem{}, create.ReadingHistory...)
	return &user, nil
}

func (d *DB) UpdateUser(update *model.User) (*model.User, error) {
	favorites, history, err := marshalUserLists(update)
	if err != nil {
		return nil, err
	}

	stmt := `
		UPDATE user
		SET
			name = ?,
			email = ?,
			password_hash = ?,
			role = ?,
			favorites = ?,
			reading_history = ?
		WHERE id = ?
	`

	d.lock.Lock()
	defer d.lock.Unlock()
	result, err := d.db.Exec(stmt,
		update.Name,
		update.Email,
		update.PasswordHash,
		update.Role,
		favorites,
		history,
		update.ID,
	)
	if err != nil {
		return nil, err
	}

	// Unknown id is a silent no-op, deliberately.
	if n, err := result.RowsAffected(); err != nil || n == 0 {
		return nil, err
	}

	return update, nil
}

func marshalUserLists(user *model.User) (string, string, error) {
	favorites := user.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	history := user.ReadingHistory
	if history == nil {
		history = []model.ReadingHistoryItem{}
	}

	favoritesJSON, err := json.Marshal(favorites)
	if err != nil {
		return "", "", err
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return "", "", err
	}
	return string(favoritesJSON), string(historyJSON), nil
}

func (d *DB) PutContent(userID, bookID, content string) error {
	stmt := `
		INSERT INTO book_content (user_id, book_id, content)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, book_id) DO UPDATE
		SET content=excluded.content
	`

	d.lock.Lock()
	defer d.lock.Unlock()
	_, err := d.db.Exec(stmt, userID, bookID, content)
	return err
}

func (d *DB) GetContent(userID, bookID string) (string, bool, error) {
	var content string
	err := d.db.QueryRow(
		`SELECT content FROM book_content WHERE user_id = ? AND book_id = ?`,
		userID, bookID,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

func (d *DB) DeleteContent(userID, bookID string) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	_, err := d.db.Exec(`DELETE FROM book_content WHERE user_id = ? AND book_id = ?`, userID, bookID)
	return err
}

func (d *DB) DeleteBookContent(bookID string) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	_, err := d.db.Exec(`DELETE FROM book_content WHERE book_id = ?`, bookID)
	return err
}

func (d *DB) ListCachedBookIDs(userID string) ([]string, error) {
	rows, err := d.db.Query(
		`SELECT book_id FROM book_content WHERE user_id = ? ORDER BY created_ts ASC, rowid ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (d *DB) AddJob(job *model.Job) (*model.Job, error) {
	stmt := `
		INSERT INTO job (id, user_id, book_id, status, detail, created_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, user_id, book_id, status, detail, created_ts
	`

	d.lock.Lock()
	defer d.lock.Unlock()
	tx, err := d.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var j model.Job
	if err := tx.QueryRow(stmt, job.ID, job.UserID, job.BookID, job.Status, job.Detail, job.CreatedTs).Scan(
		&j.ID, &j.UserID, &j.BookID, &j.Status, &j.Detail, &j.CreatedTs,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &j, nil
}

func (d *DB) UpdateJob(job *model.Job) (*model.Job, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	_, err := d.db.Exec(
		`UPDATE job SET status = ?, detail = ? WHERE id = ?`,
		job.Status, job.Detail, job.ID,
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (d *DB) ListJobs(find *model.FindJob) ([]*model.Job, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "book_id = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, *v)
	}

	query := `
		SELECT id, user_id, book_id, status, detail, created_ts
		FROM job
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC, rowid DESC`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Job, 0)
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(&j.ID, &j.UserID, &j.BookID, &j.Status, &j.Detail, &j.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, &j)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
