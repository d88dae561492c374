package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/unessa/fundraiser-api/internal/model"
)

func testPayment() *model.Payment {
	return &model.Payment{
		ID:        "22222222-2222-2222-2222-222222222222",
		RefName:   "asharao1234",
		Name:      "Ravi Kumar",
		Email:     "ravi@example.com",
		Amount:    50000,
		OrderID:   "order_abc",
		PaymentID: "pay_xyz",
		CreatedAt: time.Now(),
	}
}

func TestPaymentCreateCreditsReferrer(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)
	p := testPayment()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET amount = amount +")).
		WithArgs(p.Amount, p.CreatedAt, p.RefName).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPaymentCreateUnknownReferrerRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)
	p := testPayment()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET amount = amount +")).
		WithArgs(p.Amount, p.CreatedAt, p.RefName).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), p)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Create error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPaymentCreateWithoutReferrerSkipsCredit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)
	p := testPayment()
	p.RefName = ""

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPaymentListByRefName(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "ref_name", "name", "email", "phone", "amount", "anonymous",
		"address", "order_id", "payment_id", "created_at",
	}).
		AddRow("p2", "asharao1234", "Meera", "meera@example.com", "", int64(100000), false, "", "order_2", "pay_2", now).
		AddRow("p1", "asharao1234", "Ravi", "ravi@example.com", "", int64(50000), true, "", "order_1", "pay_1", now.Add(-time.Hour))

	mock.ExpectQuery("(?s)SELECT .+ FROM payments WHERE ref_name").
		WithArgs("asharao1234").
		WillReturnRows(rows)

	payments, err := repo.ListByRefName(context.Background(), "asharao1234")
	if err != nil {
		t.Fatalf("ListByRefName returned error: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("got %d payments, want 2", len(payments))
	}
	if payments[0].PaymentID != "pay_2" {
		t.Errorf("first payment = %q, want newest first", payments[0].PaymentID)
	}
	if !payments[1].Anonymous {
		t.Error("anonymous flag not scanned")
	}
}

func TestPaymentExistsByPaymentID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("pay_xyz").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByPaymentID(context.Background(), "pay_xyz")
	if err != nil {
		t.Fatalf("ExistsByPaymentID returned error: %v", err)
	}
	if !exists {
		t.Error("exists = false, want true")
	}
}
