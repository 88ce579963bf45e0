package category_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"city-announcements/internal/domain/entity"
	"city-announcements/internal/handler/http/category"
	catUC "city-announcements/internal/usecase/category"
)

type stubRepo struct {
	cats []*entity.Category
	err  error
}

func (s *stubRepo) List(_ context.Context) ([]*entity.Category, error) {
	return s.cats, s.err
}

func (s *stubRepo) ListByIDs(_ context.Context, _ []int64) ([]*entity.Category, error) {
	return nil, nil
}

func (s *stubRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.cats)), s.err
}

func TestListHandler(t *testing.T) {
	h := category.ListHandler{Svc: &catUC.Service{Repo: &stubRepo{cats: []*entity.Category{
		{ID: 1, Name: "City"},
		{ID: 5, Name: "Health"},
	}}}}

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []category.DTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Name != "City" || got[1].Name != "Health" {
		t.Errorf("got = %+v", got)
	}
}

func TestListHandler_RepoError(t *testing.T) {
	h := category.ListHandler{Svc: &catUC.Service{Repo: &stubRepo{err: errors.New("connection refused")}}}

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
