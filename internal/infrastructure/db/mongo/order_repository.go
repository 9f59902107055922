package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servicedesk/backoffice/internal/core/billing"
	"github.com/servicedesk/backoffice/internal/core/domain"
	"github.com/servicedesk/backoffice/internal/core/ports"
)

const (
	ordersCollection = "orders"
	idempotencyIndex = "tenant_idempotency_key"
)

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(ordersCollection)}
}

// Create inserts a new order document. A second order with the same tenant
// and idempotency key is rejected by the unique index.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, o); err != nil {
		if isIdempotencyConflict(err) {
			return fmt.Errorf("insert order: %w", domain.ErrDuplicateIdempotencyKey)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// isIdempotencyConflict tells a duplicate idempotency key apart from other
// unique violations such as a colliding order number.
func isIdempotencyConflict(err error) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), idempotencyIndex)
}

// FindByIdempotencyKey retrieves the order a tenant created with key.
func (r *OrderRepository) FindByIdempotencyKey(ctx context.Context, tenantID, key string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Order
	err := r.col.FindOne(ctx, bson.M{"tenant_id": tenantID, "idempotency_key": key}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByNumber retrieves an order by number within the given scope.
func (r *OrderRepository) FindByNumber(ctx context.Context, number string, scope ports.OrderScope) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := scopeFilter(scope)
	filter["number"] = number

	var o domain.Order
	if err := r.col.FindOne(ctx, filter).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// List returns one page of orders, newest first, plus the total match count.
func (r *OrderRepository) List(ctx context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.Order, 0, f.Limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}
	return items, total, nil
}

// UpdateInstallments replaces the schedule of an open order. A closed or
// missing order yields ErrOrderNotFound.
func (r *OrderRepository) UpdateInstallments(ctx context.Context, number string, installments []billing.Installment, at time.Time) error {
	return r.updateOpen(ctx, number, bson.M{
		"installments": installments,
		"updated_at":   at.UTC(),
	})
}

// UpdateStatus moves an open order to a terminal status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, number string, status domain.OrderStatus, at time.Time) error {
	return r.updateOpen(ctx, number, bson.M{
		"status":     string(status),
		"updated_at": at.UTC(),
	})
}

func (r *OrderRepository) updateOpen(ctx context.Context, number string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"number": number, "status": string(domain.OrderOpen)}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the orders collection.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "client_id", Value: 1}}},
		{
			Keys: bson.D{{Key: "tenant_id", Value: 1}, {Key: "idempotency_key", Value: 1}},
			Options: options.Index().
				SetName(idempotencyIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotency_key": bson.M{"$exists": true}}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func scopeFilter(scope ports.OrderScope) bson.M {
	filter := bson.M{}
	if scope.TenantID != "" {
		filter["tenant_id"] = scope.TenantID
	}
	if scope.ClientID != "" {
		filter["client_id"] = scope.ClientID
	}
	return filter
}

// listFilter builds the query for List. The scope client always wins over
// the optional client filter.
func listFilter(f ports.ListOrdersFilter) bson.M {
	filter := scopeFilter(f.Scope)
	if f.ClientID != "" && f.Scope.ClientID == "" {
		filter["client_id"] = f.ClientID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if !f.DateFrom.IsZero() || !f.DateTo.IsZero() {
		date := bson.M{}
		if !f.DateFrom.IsZero() {
			date["$gte"] = f.DateFrom.UTC()
		}
		if !f.DateTo.IsZero() {
			date["$lte"] = f.DateTo.UTC()
		}
		filter["contract_date"] = date
	}
	return filter
}
