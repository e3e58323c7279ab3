package entities

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&WhitelistedUser{},
		&Tenant{},
		&Property{},
		&Unit{},
		&Vendor{},
		&MaintenanceRequest{},
		&LinkedRequest{},
		&OverwriteCode{},
		&Lease{},
		&Payment{},
		&Expense{},
		&Message{},
		&ContactRequest{},
	}
}
