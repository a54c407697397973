package tests

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/leonsilipetar/cadenza/core/invoice"
	"github.com/leonsilipetar/cadenza/core/user"
	testutil "github.com/leonsilipetar/cadenza/tests"
)

func createInvoice(t *testing.T, adminToken, userID, schoolID string) invoice.Invoice {
	t.Helper()

	body := marchallObj(t, invoice.NewInvoice{
		UserID:      userID,
		SchoolID:    schoolID,
		SchoolYear:  "2026/2027",
		AmountCents: 25000,
		Description: "Tuition",
		DueDate:     time.Now().AddDate(0, 1, 0),
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/invoices", adminToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invoice code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var inv invoice.Invoice
	if err := json.Unmarshal(rec.Body.Bytes(), &inv); err != nil {
		t.Fatalf("decoding invoice: %v", err)
	}
	return inv
}

func Test_invoiceApi(t *testing.T) {
	sch := testutil.CreateSchool(t, schRepo, "Billing School")
	student := testutil.CreateUser(t, usrRepo, "Billed Student", "billedstud", "billed@test.cadenza", "", []string{user.RoleStudent}, true)
	other := testutil.CreateUser(t, usrRepo, "Other Billed", "otherbilled", "", "", []string{user.RoleStudent}, true)
	admin := testutil.CreateUser(t, usrRepo, "Bursar", "bursaradmin", "", "", []string{user.RoleAdmin}, true)

	studentToken := getToken(t, student)
	adminToken := getToken(t, admin)

	t.Run("create is admin only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/invoices", studentToken)
		app.ServeHTTP(rec, req)
		check := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}
		checkCodeAndData(t, check, rec)
	})

	inv := createInvoice(t, adminToken, student.ID, sch.ID)
	otherInv := createInvoice(t, adminToken, other.ID, sch.ID)

	t.Run("query is scoped to the caller", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/invoices", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
		}
		var invoices []invoice.Invoice
		if err := json.Unmarshal(rec.Body.Bytes(), &invoices); err != nil {
			t.Fatalf("decoding invoices: %v", err)
		}
		if len(invoices) != 1 || invoices[0].ID != inv.ID {
			t.Errorf("invoices = %+v; want [%v]", invoices, inv.ID)
		}
	})

	t.Run("others' invoices are hidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/invoices/"+otherInv.ID, studentToken)
		app.ServeHTTP(rec, req)
		check := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		checkCodeAndData(t, check, rec)
	})

	t.Run("pay", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/invoices/"+inv.ID+"/pay", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var paid invoice.Invoice
		if err := json.Unmarshal(rec.Body.Bytes(), &paid); err != nil {
			t.Fatalf("decoding invoice: %v", err)
		}
		if paid.Status != invoice.StatusPaid || !paid.PaidAt.Valid {
			t.Errorf("invoice = %+v", paid)
		}

		// paying twice is a client error
		req, rec = newAuthRequest(http.MethodPost, "/v1/invoices/"+inv.ID+"/pay", adminToken)
		app.ServeHTTP(rec, req)
		check := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: invoice.ErrAlreadyPaid.Error()}),
		}
		checkCodeAndData(t, check, rec)
	})

	t.Run("cancel paid invoice is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/invoices/"+inv.ID+"/cancel", adminToken)
		app.ServeHTTP(rec, req)
		check := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: invoice.ErrNotPending.Error()}),
		}
		checkCodeAndData(t, check, rec)
	})

	t.Run("cancel", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/invoices/"+otherInv.ID+"/cancel", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var cancelled invoice.Invoice
		if err := json.Unmarshal(rec.Body.Bytes(), &cancelled); err != nil {
			t.Fatalf("decoding invoice: %v", err)
		}
		if cancelled.Status != invoice.StatusCancelled {
			t.Errorf("status = %v; want %v", cancelled.Status, invoice.StatusCancelled)
		}
	})
}
