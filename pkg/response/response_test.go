package response

import (
	"net/http"
	"testing"
)

func TestSuccess(t *testing.T) {
	r := Success(http.StatusCreated, "payload")
	if r.Status != "success" || r.StatusCode != http.StatusCreated || r.Data != "payload" {
		t.Fatalf("unexpected envelope %+v", r)
	}
	if r.Error != nil || r.Meta != nil {
		t.Fatalf("success envelope must not carry error or meta: %+v", r)
	}
}

func TestPaginated(t *testing.T) {
	r := Paginated(http.StatusOK, []int{1, 2}, 3, 20, 45)
	if r.Meta == nil || r.Meta.Page != 3 || r.Meta.Limit != 20 || r.Meta.Total != 45 {
		t.Fatalf("unexpected meta %+v", r.Meta)
	}
}

func TestFailure(t *testing.T) {
	r := Failure(http.StatusUnprocessableEntity, CodeNotReady, "quote is not ready for review",
		"no items", "no winner selected")
	if r.Status != "error" || r.Error == nil {
		t.Fatalf("unexpected envelope %+v", r)
	}
	if r.Error.Code != CodeNotReady || len(r.Error.Reasons) != 2 {
		t.Fatalf("unexpected error body %+v", r.Error)
	}
}

func TestErrorInfersCode(t *testing.T) {
	if r := Error(http.StatusNotFound, "missing"); r.Error.Code != CodeNotFound {
		t.Fatalf("expected not_found, got %q", r.Error.Code)
	}
	if r := Error(http.StatusBadRequest, "bad"); r.Error.Code != CodeBadRequest {
		t.Fatalf("expected bad_request, got %q", r.Error.Code)
	}
}
