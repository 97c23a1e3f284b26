package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hectorisrael87/fundacion-sys/internal/model"
	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSupplierTotals(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	supplier1 := uuid.New()
	supplier2 := uuid.New()

	q := &model.ComparativeQuote{
		Items: []model.QuoteItem{
			{ProductID: productA, Cantidad: dec("2")},
			{ProductID: productB, Cantidad: dec("3")},
		},
		Suppliers: []model.QuoteSupplier{
			{SupplierID: supplier1, Supplier: &model.Supplier{NombreEmpresa: "Proveedor Uno"}},
			{SupplierID: supplier2, Supplier: &model.Supplier{NombreEmpresa: "Proveedor Dos"}},
		},
		Prices: []model.QuotePrice{
			{SupplierID: supplier1, ProductID: productA, PrecioUnit: dec("10.00")},
			{SupplierID: supplier1, ProductID: productB, PrecioUnit: dec("5.00")},
			// supplier2 only priced product A
			{SupplierID: supplier2, ProductID: productA, PrecioUnit: dec("9.50")},
		},
	}

	totals := supplierTotals(q)
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	if totals[0].SupplierName != "Proveedor Uno" || totals[0].Total != "35.00" {
		t.Fatalf("unexpected first total %+v", totals[0])
	}
	// Missing cells contribute nothing to the comparison total.
	if totals[1].Total != "19.00" {
		t.Fatalf("unexpected second total %+v", totals[1])
	}
}

func TestQuoteSnapshot(t *testing.T) {
	productID := uuid.New()
	supplierID := uuid.New()
	winner := uuid.New()

	q := &model.ComparativeQuote{
		SelectedSupplierID: &winner,
		MotivoSeleccion:    "mejor precio y plazo",
		Items: []model.QuoteItem{
			{ProductID: productID, Product: &model.Product{Nombre: "Cemento"}, Cantidad: dec("4")},
		},
		Suppliers: []model.QuoteSupplier{
			{SupplierID: supplierID, Supplier: &model.Supplier{NombreEmpresa: "Ferretería Central"}},
		},
		Prices: []model.QuotePrice{
			{SupplierID: supplierID, ProductID: productID, PrecioUnit: dec("12.00")},
		},
	}
	manual := dec("100.00")
	orders := []model.PaymentOrder{
		{Number: "OP-2026-000007", Estado: workflow.StatusDraft, Descripcion: "Compra", EsParcial: true, MontoManual: &manual},
	}

	snap := quoteSnapshot(q, orders)

	if !snap.WinnerSelected || snap.Rationale != "mejor precio y plazo" {
		t.Fatalf("winner not projected: %+v", snap)
	}
	if len(snap.Items) != 1 || snap.Items[0].ProductName != "Cemento" {
		t.Fatalf("items not projected: %+v", snap.Items)
	}
	if len(snap.Suppliers) != 1 || snap.Suppliers[0].SupplierName != "Ferretería Central" {
		t.Fatalf("suppliers not projected: %+v", snap.Suppliers)
	}
	if len(snap.Prices) != 1 {
		t.Fatalf("prices not projected: %+v", snap.Prices)
	}
	if len(snap.Orders) != 1 || snap.Orders[0].Number != "OP-2026-000007" || !snap.Orders[0].IsPartial {
		t.Fatalf("orders not projected: %+v", snap.Orders)
	}

	if err := workflow.CheckQuoteReadiness(snap); err != nil {
		t.Fatalf("snapshot should be ready: %v", err)
	}
}

func TestPriceMatrix(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	supplier1 := uuid.New()
	supplier2 := uuid.New()

	q := &model.ComparativeQuote{
		Items: []model.QuoteItem{
			{ID: uuid.New(), ProductID: productA, Product: &model.Product{Nombre: "Cemento"}, Unidad: "Bolsa", Cantidad: dec("2")},
			{ID: uuid.New(), ProductID: productB, Product: &model.Product{Nombre: "Arena"}, Unidad: "m3", Cantidad: dec("3")},
		},
		Suppliers: []model.QuoteSupplier{
			{SupplierID: supplier1},
			{SupplierID: supplier2},
		},
		Prices: []model.QuotePrice{
			{SupplierID: supplier1, ProductID: productA, PrecioUnit: dec("10.00")},
			{SupplierID: supplier2, ProductID: productA, PrecioUnit: dec("9.50")},
			{SupplierID: supplier1, ProductID: productB, PrecioUnit: dec("5.00")},
		},
	}

	matrix := priceMatrix(q)
	if len(matrix) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(matrix))
	}

	first := matrix[0]
	if first.ProductName != "Cemento" || len(first.Cells) != 2 {
		t.Fatalf("unexpected first row %+v", first)
	}
	if first.Cells[0].UnitPrice != "10.00" || first.Cells[0].Subtotal != "20.00" {
		t.Fatalf("unexpected cell %+v", first.Cells[0])
	}

	// Supplier 2 never priced Arena: the cell exists but stays empty.
	second := matrix[1]
	if second.Cells[1].UnitPrice != "" || second.Cells[1].Subtotal != "" {
		t.Fatalf("expected empty cell, got %+v", second.Cells[1])
	}
	if second.Cells[0].Subtotal != "15.00" {
		t.Fatalf("unexpected subtotal %q", second.Cells[0].Subtotal)
	}
}
