package http

import (
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func toTransactionResponse(t *entity.StockTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                     t.ID,
		TransactionID:          t.TransactionID,
		Type:                   string(t.Type),
		ProductID:              t.ProductID,
		DestinationProductID:   t.DestinationProductID,
		Quantity:               t.Quantity,
		UnitPrice:              t.UnitPrice,
		BuyingPrice:            t.BuyingPrice,
		SellingPrice:           t.SellingPrice,
		WastageAmount:          t.WastageAmount,
		TotalPrice:             t.TotalPrice,
		ProfitLoss:             t.ProfitLoss,
		SupplierID:             t.SupplierID,
		ClientID:               t.ClientID,
		SourceWarehouseID:      t.SourceWarehouseID,
		DestinationWarehouseID: t.DestinationWarehouseID,
		ApplyTaxes:             t.ApplyTaxes,
		VATRate:                t.VATRate,
		AITRate:                t.AITRate,
		FinalPrice:             t.FinalPrice,
		PaymentStatus:          string(t.PaymentStatus),
		PaymentDueDate:         t.PaymentDueDate,
		AmountPaid:             t.AmountPaid,
		AmountDue:              t.AmountDue,
		ReferenceNumber:        t.ReferenceNumber,
		Notes:                  t.Notes,
		TransactionDate:        t.TransactionDate,
		CreatedBy:              t.CreatedBy,
		CreatedAt:              t.CreatedAt,
	}
}

func toMovementResponse(p *inventory.MovementPlan) dto.MovementResponse {
	out := dto.MovementResponse{Changes: make([]dto.ProductChangeResponse, 0, 2)}
	if p == nil {
		return out
	}
	for _, ch := range p.Changes {
		out.Changes = append(out.Changes, dto.ProductChangeResponse{
			ProductID:       ch.ProductID,
			Before:          ch.Before,
			After:           ch.After,
			WarehouseBefore: ch.WarehouseBefore,
			WarehouseAfter:  ch.WarehouseAfter,
		})
	}
	out.DestinationProductID = p.DestinationProductID()
	out.CreatedDestination = p.NewProduct != nil
	return out
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		Method:        p.Method,
		Reference:     p.Reference,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
	}
}

func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	return dto.InvoiceResponse{
		ID:                 inv.ID,
		InvoiceNumber:      inv.InvoiceNumber,
		ClientID:           inv.ClientID,
		StockTransactionID: inv.StockTransactionID,
		IssueDate:          inv.IssueDate,
		DueDate:            inv.DueDate,
		Status:             inv.Status,
		Subtotal:           inv.Subtotal,
		TaxRate:            inv.TaxRate,
		TaxAmount:          inv.TaxAmount,
		Discount:           inv.Discount,
		Total:              inv.Total,
		Notes:              inv.Notes,
		Items:              items,
		CreatedAt:          inv.CreatedAt,
	}
}

func toRecordResponse(r *ledger.RecordResult) dto.RecordTransactionResponse {
	out := dto.RecordTransactionResponse{
		Transaction: toTransactionResponse(r.Transaction),
		Movement:    toMovementResponse(r.Movement),
	}
	if r.OpeningPayment != nil {
		p := toPaymentResponse(r.OpeningPayment)
		out.OpeningPayment = &p
	}
	if r.Invoice != nil {
		inv := toInvoiceResponse(r.Invoice)
		out.Invoice = &inv
	}
	return out
}
