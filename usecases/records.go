package usecases

import (
	"hoa-server/entities"
	"hoa-server/repositories"
)

func NewVendorUseCase(repos *repositories.Repositories) *ResourceUseCase[entities.Vendor] {
	return NewResourceUseCase(repos.Vendors, map[string]string{
		"name":  "name",
		"email": "email",
		"phone": "phone",
	})
}

func NewLeaseUseCase(repos *repositories.Repositories) *ResourceUseCase[entities.Lease] {
	return NewResourceUseCase(repos.Leases, map[string]string{
		"startDate":   "start_date",
		"endDate":     "end_date",
		"monthlyRent": "monthly_rent",
		"deposit":     "deposit",
	})
}

func NewPaymentUseCase(repos *repositories.Repositories) *ResourceUseCase[entities.Payment] {
	return NewResourceUseCase[entities.Payment](repos.Payments, map[string]string{
		"amount":   "amount",
		"dueDate":  "due_date",
		"paidDate": "paid_date",
		"status":   "status",
	}).OnCreate(func(_ Actor, p *entities.Payment) {
		if p.Status == "" {
			p.Status = entities.PaymentPending
		}
	})
}

func NewExpenseUseCase(repos *repositories.Repositories) *ResourceUseCase[entities.Expense] {
	return NewResourceUseCase(repos.Expenses, map[string]string{
		"category":    "category",
		"amount":      "amount",
		"incurredOn":  "incurred_on",
		"description": "description",
		"unitId":      "unit_id",
	})
}

// NewMessageUseCase records the caller as the sender of every new message.
func NewMessageUseCase(repos *repositories.Repositories) *ResourceUseCase[entities.Message] {
	return NewResourceUseCase(repos.Messages, map[string]string{
		"subject": "subject",
		"body":    "body",
		"read":    "read",
	}).OnCreate(func(actor Actor, m *entities.Message) {
		m.SenderID = actor.UserID
	})
}
