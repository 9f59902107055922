package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/servicedesk/backoffice/internal/core/ports"
)

func TestListFilter(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   ports.ListOrdersFilter
		want bson.M
	}{
		{
			name: "super admin sees everything",
			in:   ports.ListOrdersFilter{},
			want: bson.M{},
		},
		{
			name: "staff filters by client and status",
			in: ports.ListOrdersFilter{
				Scope:    ports.OrderScope{TenantID: "t1"},
				ClientID: "c2",
				Status:   "open",
			},
			want: bson.M{"tenant_id": "t1", "client_id": "c2", "status": "open"},
		},
		{
			name: "client scope wins over client filter",
			in: ports.ListOrdersFilter{
				Scope:    ports.OrderScope{TenantID: "t1", ClientID: "c1"},
				ClientID: "c2",
			},
			want: bson.M{"tenant_id": "t1", "client_id": "c1"},
		},
		{
			name: "date range",
			in: ports.ListOrdersFilter{
				Scope:    ports.OrderScope{TenantID: "t1"},
				DateFrom: from,
				DateTo:   to,
			},
			want: bson.M{"tenant_id": "t1", "contract_date": bson.M{"$gte": from, "$lte": to}},
		},
		{
			name: "open ended range",
			in:   ports.ListOrdersFilter{DateFrom: from},
			want: bson.M{"contract_date": bson.M{"$gte": from}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, listFilter(tc.in)); diff != "" {
				t.Errorf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsIdempotencyConflict(t *testing.T) {
	dup := func(msg string) error {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: msg}}}
	}

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"same key", dup("E11000 duplicate key error collection: backoffice.orders index: tenant_idempotency_key dup key: { tenant_id: \"t1\", idempotency_key: \"req-1\" }"), true},
		{"order number collision", dup("E11000 duplicate key error collection: backoffice.orders index: number_1 dup key: { number: \"OS-1\" }"), false},
		{"other failure", errors.New("connection reset"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isIdempotencyConflict(tc.err); got != tc.want {
				t.Errorf("isIdempotencyConflict = %v, want %v", got, tc.want)
			}
		})
	}
}
