package dto_test

import (
	"kumbam/shared/constant"
	"kumbam/shared/dto"
	"kumbam/shared/model"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestMetadataFrom(t *testing.T) {
	createdAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := dto.MetadataFrom(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	if _, err := time.Parse(constant.DateFormat, metadata.CreatedAt); err != nil {
		t.Errorf("expected CreatedAt in %s layout, got %s", constant.DateFormat, metadata.CreatedAt)
	}

	if _, err := time.Parse(constant.DateFormat, metadata.ModifiedAt); err != nil {
		t.Errorf("expected ModifiedAt in %s layout, got %s", constant.DateFormat, metadata.ModifiedAt)
	}

	if metadata.CreatedBy != "creator" || metadata.ModifiedBy != "modifier" {
		t.Errorf("unexpected actors %+v", metadata)
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          url.Values
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:           "all parameters",
			query:          url.Values{"page": {"2"}, "limit": {"20"}, "sort_by": {"name"}, "sort_dir": {"asc"}},
			defaultRequest: false,
			expected:       dto.QueryParams{Page: 2, Limit: 20, SortBy: "name", SortDir: "ASC"},
		},
		{
			name:           "defaults applied",
			query:          url.Values{},
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "invalid numbers ignored",
			query:          url.Values{"page": {"-1"}, "limit": {"abc"}, "sort_dir": {"sideways"}},
			defaultRequest: false,
			expected:       dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{URL: &url.URL{RawQuery: tt.query.Encode()}}

			q := dto.QueryParams{}
			q.FromRequest(req, tt.defaultRequest)

			if q != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, q)
			}
		})
	}
}

func TestQueryParams_RestrictSort(t *testing.T) {
	q := dto.QueryParams{SortBy: "name; DROP TABLE venues", SortDir: "ASC"}
	q.RestrictSort("name", "price")

	if q.SortBy != "" {
		t.Errorf("expected disallowed sort column to be dropped, got %s", q.SortBy)
	}

	q = dto.QueryParams{SortBy: "price"}
	q.RestrictSort("name", "price")

	if q.SortBy != "price" || q.SortDir != dto.SortDirAsc {
		t.Errorf("expected price ASC, got %s %s", q.SortBy, q.SortDir)
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   dto.Filter
		where    string
		argNames []string
	}{
		{
			name:     "eq with table",
			filter:   dto.Eq("bookings", "venue_id", "v-1"),
			where:    "bookings.venue_id = :venue_id",
			argNames: []string{"venue_id"},
		},
		{
			name:     "in with slice expands named args",
			filter:   dto.Filter{Field: "booked_date", Operator: dto.FilterOperatorIn, Value: []string{"2025-05-01", "2025-05-02"}},
			where:    "booked_date IN (:booked_date_0, :booked_date_1) ",
			argNames: []string{"booked_date_0", "booked_date_1"},
		},
		{
			name:     "less uses arg name",
			filter:   dto.Filter{ArgName: "upper", Field: "booked_date", Operator: dto.FilterOperatorLess, Value: "2025-06-01"},
			where:    "booked_date < :upper",
			argNames: []string{"upper"},
		},
		{
			name:   "is null",
			filter: dto.Filter{Field: "consumed_at", Operator: dto.FilterIsNull},
			where:  "consumed_at IS NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			if where != tt.where {
				t.Errorf("expected %q, got %q", tt.where, where)
			}

			if len(args) != len(tt.argNames) {
				t.Fatalf("expected %d args, got %d", len(tt.argNames), len(args))
			}

			for _, name := range tt.argNames {
				if _, ok := args[name]; !ok {
					t.Errorf("expected arg %s to be present", name)
				}
			}
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.And(
		dto.Eq("payments", "transaction_id", "TXN1"),
		dto.Filter{ArgName: "current_status", Field: "status", Operator: dto.FilterOperatorEq, Value: "PENDING", Table: "payments"},
	)

	where, args := group.GetWhereClause()

	if !strings.Contains(where, " AND ") {
		t.Errorf("expected AND join, got %s", where)
	}

	if args["current_status"] != "PENDING" || args["transaction_id"] != "TXN1" {
		t.Errorf("unexpected args %v", args)
	}

	empty := dto.FilterGroup{}
	if where, _ := empty.GetWhereClause(); where != "" {
		t.Errorf("expected empty clause, got %s", where)
	}
}
