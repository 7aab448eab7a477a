package storage

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"partsapi/models"
)

// PostgresStore maps each collection onto a table of the same name. Ids are
// ObjectIDs stored as hex text so clients see the same identifiers as with
// the mongo backend.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}
	return &PostgresStore{db: db}, nil
}

type productRow struct {
	ID           string  `db:"id"`
	Name         string  `db:"name"`
	Price        float64 `db:"price"`
	Description  string  `db:"description"`
	Quantity     int     `db:"quantity"`
	Img          string  `db:"img"`
	MinimumOrder int     `db:"minimum_order"`
}

func (r productRow) model() (models.Product, error) {
	id, err := primitive.ObjectIDFromHex(r.ID)
	return models.Product{
		ID:           id,
		Name:         r.Name,
		Price:        r.Price,
		Description:  r.Description,
		Quantity:     r.Quantity,
		Img:          r.Img,
		MinimumOrder: r.MinimumOrder,
	}, errors.Wrapf(err, "part id %q", r.ID)
}

type orderRow struct {
	ID            string  `db:"id"`
	Email         string  `db:"email"`
	ProductName   string  `db:"product_name"`
	Quantity      int     `db:"quantity"`
	Price         float64 `db:"price"`
	Paid          bool    `db:"paid"`
	TransactionID string  `db:"transaction_id"`
	Status        string  `db:"status"`
	Address       string  `db:"address"`
	Phone         string  `db:"phone"`
}

func (r orderRow) model() (models.Order, error) {
	id, err := primitive.ObjectIDFromHex(r.ID)
	return models.Order{
		ID:            id,
		Email:         r.Email,
		ProductName:   r.ProductName,
		Quantity:      r.Quantity,
		Price:         r.Price,
		Paid:          r.Paid,
		TransactionID: r.TransactionID,
		Status:        r.Status,
		Address:       r.Address,
		Phone:         r.Phone,
	}, errors.Wrapf(err, "order id %q", r.ID)
}

type reviewRow struct {
	ID        string `db:"id"`
	Email     string `db:"email"`
	ProductID string `db:"product_id"`
	Text      string `db:"text"`
	Rating    int    `db:"rating"`
}

type paymentRow struct {
	ID            string  `db:"id"`
	OrderID       string  `db:"order_id"`
	TransactionID string  `db:"transaction_id"`
	Status        string  `db:"status"`
	Email         string  `db:"email"`
	Price         float64 `db:"price"`
}

const (
	productColumns = `id, name, price, description, quantity, img, minimum_order`
	orderColumns   = `id, email, product_name, quantity, price, paid, transaction_id, status, address, phone`
)

func (s *PostgresStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+productColumns+` FROM parts ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "select parts")
	}
	res := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		p, err := r.model()
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, nil
}

func (s *PostgresStore) FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM parts WHERE id = $1`, id.Hex())
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "select part")
	}
	p, err := row.model()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) InsertProduct(ctx context.Context, p *models.Product) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO parts (`+productColumns+`)
		VALUES (:id, :name, :price, :description, :quantity, :img, :minimum_order)
	`, productRow{
		ID:           p.ID.Hex(),
		Name:         p.Name,
		Price:        p.Price,
		Description:  p.Description,
		Quantity:     p.Quantity,
		Img:          p.Img,
		MinimumOrder: p.MinimumOrder,
	})
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert part")
	}
	return p.ID, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return s.exec(ctx, `DELETE FROM parts WHERE id = $1`, id.Hex())
}

func (s *PostgresStore) InsertOrder(ctx context.Context, o *models.Order) (primitive.ObjectID, error) {
	o.ID = primitive.NewObjectID()
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (:id, :email, :product_name, :quantity, :price, :paid, :transaction_id, :status, :address, :phone)
	`, orderRow{
		ID:            o.ID.Hex(),
		Email:         o.Email,
		ProductName:   o.ProductName,
		Quantity:      o.Quantity,
		Price:         o.Price,
		Paid:          o.Paid,
		TransactionID: o.TransactionID,
		Status:        o.Status,
		Address:       o.Address,
		Phone:         o.Phone,
	})
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert order")
	}
	return o.ID, nil
}

func (s *PostgresStore) FindOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var row orderRow
	err := s.db.GetContext(ctx, &row, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id.Hex())
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	o, err := row.model()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *PostgresStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.selectOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at`)
}

func (s *PostgresStore) ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	return s.selectOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE email = $1 ORDER BY created_at`, email)
}

func (s *PostgresStore) DeleteOrder(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return s.exec(ctx, `DELETE FROM orders WHERE id = $1`, id.Hex())
}

func (s *PostgresStore) DeleteOrderOwnedBy(ctx context.Context, id primitive.ObjectID, email string) (int64, error) {
	return s.exec(ctx, `DELETE FROM orders WHERE id = $1 AND email = $2`, id.Hex(), email)
}

func (s *PostgresStore) MarkOrderPaid(ctx context.Context, id primitive.ObjectID, transactionID, status string) error {
	n, err := s.exec(ctx, `
		UPDATE orders SET paid = TRUE, transaction_id = $2, status = $3
		WHERE id = $1 AND NOT paid
	`, id.Hex(), transactionID, status)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id.Hex()); err != nil {
		return errors.Wrap(err, "check order")
	}
	if !exists {
		return ErrNotFound
	}
	return ErrAlreadyPaid
}

func (s *PostgresStore) SetOrderStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	n, err := s.exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id.Hex(), status)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpsertUser(ctx context.Context, u models.User) (*models.User, error) {
	var out models.User
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO users (email, role, name)
		VALUES ($1, COALESCE(NULLIF($2, ''), 'customer'), $3)
		ON CONFLICT (email) DO UPDATE SET
			role = COALESCE(NULLIF($2, ''), users.role),
			name = COALESCE(NULLIF($3, ''), users.name)
		RETURNING email, role, name
	`, u.Email, u.Role, u.Name).Scan(&out.Email, &out.Role, &out.Name)
	if err != nil {
		return nil, errors.Wrap(err, "upsert user")
	}
	return &out, nil
}

func (s *PostgresStore) FindUser(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowxContext(ctx, `SELECT email, role, name FROM users WHERE email = $1`, email).
		Scan(&u.Email, &u.Role, &u.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "select user")
	}
	return &u, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT email, role, name FROM users ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "select users")
	}
	defer rows.Close()

	res := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Email, &u.Role, &u.Name); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		res = append(res, u)
	}
	return res, errors.Wrap(rows.Err(), "iterate users")
}

func (s *PostgresStore) SetRole(ctx context.Context, email, role string) (int64, int64, error) {
	var current string
	err := s.db.GetContext(ctx, &current, `SELECT role FROM users WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return 0, 0, nil
	} else if err != nil {
		return 0, 0, errors.Wrap(err, "select user role")
	}
	if current == role {
		return 1, 0, nil
	}
	n, err := s.exec(ctx, `UPDATE users SET role = $2 WHERE email = $1`, email, role)
	return 1, n, err
}

func (s *PostgresStore) InsertReview(ctx context.Context, r *models.Review) (primitive.ObjectID, error) {
	r.ID = primitive.NewObjectID()
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO reviews (id, email, product_id, text, rating)
		VALUES (:id, :email, :product_id, :text, :rating)
	`, reviewRow{ID: r.ID.Hex(), Email: r.Email, ProductID: r.ProductID.Hex(), Text: r.Text, Rating: r.Rating})
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert review")
	}
	return r.ID, nil
}

func (s *PostgresStore) ListReviews(ctx context.Context) ([]models.Review, error) {
	var rows []reviewRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, email, product_id, text, rating FROM reviews ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "select reviews")
	}
	res := make([]models.Review, 0, len(rows))
	for _, r := range rows {
		id, err := primitive.ObjectIDFromHex(r.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "review id %q", r.ID)
		}
		productID, err := primitive.ObjectIDFromHex(r.ProductID)
		if err != nil {
			return nil, errors.Wrapf(err, "review product id %q", r.ProductID)
		}
		res = append(res, models.Review{ID: id, Email: r.Email, ProductID: productID, Text: r.Text, Rating: r.Rating})
	}
	return res, nil
}

func (s *PostgresStore) InsertPayment(ctx context.Context, p *models.Payment) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO payments (id, order_id, transaction_id, status, email, price)
		VALUES (:id, :order_id, :transaction_id, :status, :email, :price)
	`, paymentRow{
		ID:            p.ID.Hex(),
		OrderID:       p.OrderID.Hex(),
		TransactionID: p.TransactionID,
		Status:        p.Status,
		Email:         p.Email,
		Price:         p.Price,
	})
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "insert payment")
	}
	return p.ID, nil
}

func (s *PostgresStore) ListPaymentsByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.Payment, error) {
	var rows []paymentRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, order_id, transaction_id, status, email, price
		FROM payments WHERE order_id = $1 ORDER BY created_at
	`, orderID.Hex())
	if err != nil {
		return nil, errors.Wrap(err, "select payments")
	}
	res := make([]models.Payment, 0, len(rows))
	for _, r := range rows {
		id, err := primitive.ObjectIDFromHex(r.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "payment id %q", r.ID)
		}
		res = append(res, models.Payment{
			ID:            id,
			OrderID:       orderID,
			TransactionID: r.TransactionID,
			Status:        r.Status,
			Email:         r.Email,
			Price:         r.Price,
		})
	}
	return res, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}

func (s *PostgresStore) selectOrders(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "select orders")
	}
	res := make([]models.Order, 0, len(rows))
	for _, r := range rows {
		o, err := r.model()
		if err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, nil
}

func (s *PostgresStore) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "exec")
	}
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "rows affected")
}
