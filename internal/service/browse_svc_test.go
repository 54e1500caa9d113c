package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"carmart_za_v1/internal/client"
	"carmart_za_v1/internal/model"
	"carmart_za_v1/internal/search"
)

// ==================== Mock 客户端 ====================

type mockClient struct {
	filterFn func(ctx context.Context, filters client.Filters, sort string, limit int) ([]model.Listing, error)
	createFn func(ctx context.Context, listing *model.Listing) (*model.Listing, error)

	filterCalls []client.Filters
}

func (m *mockClient) Filter(ctx context.Context, filters client.Filters, sort string, limit int) ([]model.Listing, error) {
	m.filterCalls = append(m.filterCalls, filters)
	if m.filterFn != nil {
		return m.filterFn(ctx, filters, sort, limit)
	}
	return nil, nil
}

func (m *mockClient) Create(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
	if m.createFn != nil {
		return m.createFn(ctx, listing)
	}
	return listing, nil
}

func (m *mockClient) Update(ctx context.Context, id string, patch map[string]interface{}) (*model.Listing, error) {
	return nil, errors.New("not implemented")
}

func (m *mockClient) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

func (m *mockClient) UploadFile(ctx context.Context, file client.File) (string, error) {
	return "", errors.New("not implemented")
}

func approvedListing(id, make_ string, price int, created time.Time) model.Listing {
	return model.Listing{
		ID:        id,
		Make:      make_,
		Model:     "Test",
		Price:     price,
		Status:    model.ListingStatusApproved,
		CreatedAt: created,
	}
}

// ==================== 浏览 ====================

func TestBrowse_FilterAndCount(t *testing.T) {
	now := time.Now()
	mc := &mockClient{
		filterFn: func(ctx context.Context, filters client.Filters, sort string, limit int) ([]model.Listing, error) {
			assert.Equal(t, model.ListingStatusApproved, filters["status"])
			return []model.Listing{
				approvedListing("a", "Toyota", 250000, now),
				approvedListing("b", "BMW", 450000, now.Add(-time.Hour)),
				approvedListing("c", "Toyota", 180000, now.Add(-2*time.Hour)),
			}, nil
		},
	}
	svc := NewBrowseService(mc)

	c := search.DefaultCriteria()
	c.Make = search.Exact("Toyota")
	result, err := svc.Browse(context.Background(), c, search.SortPriceAsc)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, "c", result.Listings[0].ID)
	assert.Equal(t, "a", result.Listings[1].ID)
	assert.Equal(t, 1, result.ActiveFilters)
}

func TestBrowse_FetchError(t *testing.T) {
	mc := &mockClient{
		filterFn: func(ctx context.Context, filters client.Filters, sort string, limit int) ([]model.Listing, error) {
			return nil, errors.New("network down")
		},
	}
	svc := NewBrowseService(mc)

	_, err := svc.Browse(context.Background(), search.DefaultCriteria(), search.SortNewest)
	assert.Error(t, err)
}

func TestBrowse_EmptyBackend(t *testing.T) {
	svc := NewBrowseService(&mockClient{})

	result, err := svc.Browse(context.Background(), search.DefaultCriteria(), search.SortNewest)
	assert.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Listings)
}

// ==================== 详情 ====================

func TestGetListing_MissingID(t *testing.T) {
	mc := &mockClient{}
	svc := NewBrowseService(mc)

	_, err := svc.GetListing(context.Background(), "")
	assert.ErrorIs(t, err, client.ErrMissingID)
	// 快速失败，不应发起查询
	assert.Empty(t, mc.filterCalls)
}

func TestGetListing_Found(t *testing.T) {
	want := approvedListing("abc", "Audi", 300000, time.Now())
	mc := &mockClient{
		filterFn: func(ctx context.Context, filters client.Filters, sort string, limit int) ([]model.Listing, error) {
			assert.Equal(t, "abc", filters["id"])
			return []model.Listing{want}, nil
		},
	}
	svc := NewBrowseService(mc)

	got, err := svc.GetListing(context.Background(), "abc")
	assert.NoError(t, err)
	assert.Equal(t, "abc", got.ID)
}

func TestGetListing_NotFound(t *testing.T) {
	svc := NewBrowseService(&mockClient{})

	_, err := svc.GetListing(context.Background(), "nope")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

// ==================== 精选 ====================

func TestFeatured_Backfill(t *testing.T) {
	now := time.Now()
	featured := approvedListing("f1", "BMW", 500000, now)
	featured.Featured = true

	mc := &mockClient{}
	mc.filterFn = func(ctx context.Context, filters client.Filters, sort string, limit int) ([]model.Listing, error) {
		if filters["featured"] == true {
			return []model.Listing{featured}, nil
		}
		// 补齐查询：包含精选里已有的记录，应被去重
		return []model.Listing{
			featured,
			approvedListing("n1", "Toyota", 200000, now),
			approvedListing("n2", "Ford", 150000, now),
		}, nil
	}
	svc := NewBrowseService(mc)

	got, err := svc.Featured(context.Background(), 3)
	assert.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "f1", got[0].ID)
	assert.Equal(t, "n1", got[1].ID)
	assert.Equal(t, "n2", got[2].ID)
}

func TestFeatured_BackfillOverlapStillFills(t *testing.T) {
	now := time.Now()
	featured := approvedListing("f1", "BMW", 500000, now)
	featured.Featured = true
	approved := []model.Listing{
		featured, // 精选车源同时也是最新的已上架车源
		approvedListing("n1", "Toyota", 200000, now.Add(-time.Hour)),
		approvedListing("n2", "Ford", 150000, now.Add(-2*time.Hour)),
	}

	// mock 严格按 limit 截断，模拟真实后端
	mc := &mockClient{}
	mc.filterFn = func(ctx context.Context, filters client.Filters, sort string, limit int) ([]model.Listing, error) {
		if filters["featured"] == true {
			return []model.Listing{featured}, nil
		}
		if limit < len(approved) {
			return approved[:limit], nil
		}
		return approved, nil
	}
	svc := NewBrowseService(mc)

	got, err := svc.Featured(context.Background(), 3)
	assert.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, "f1", got[0].ID)
	assert.Equal(t, "n1", got[1].ID)
	assert.Equal(t, "n2", got[2].ID)
}

func TestFeatured_EnoughFeatured(t *testing.T) {
	now := time.Now()
	mc := &mockClient{
		filterFn: func(ctx context.Context, filters client.Filters, sort string, limit int) ([]model.Listing, error) {
			assert.Equal(t, true, filters["featured"], "精选已够数时不应发起补齐查询")
			return []model.Listing{
				approvedListing("f1", "BMW", 1, now),
				approvedListing("f2", "Audi", 2, now),
			}, nil
		},
	}
	svc := NewBrowseService(mc)

	got, err := svc.Featured(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFeatured_BackfillFailureKeepsPartial(t *testing.T) {
	now := time.Now()
	mc := &mockClient{}
	mc.filterFn = func(ctx context.Context, filters client.Filters, sort string, limit int) ([]model.Listing, error) {
		if filters["featured"] == true {
			return []model.Listing{approvedListing("f1", "BMW", 1, now)}, nil
		}
		return nil, errors.New("backend down")
	}
	svc := NewBrowseService(mc)

	got, err := svc.Featured(context.Background(), 8)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}
