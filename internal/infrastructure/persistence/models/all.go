package models

// All returns every persistence model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&UserModel{},
		&UserProfileModel{},
		&ClientModel{},
		&ProductModel{},
		&SupplierModel{},
		&CompanyProfileModel{},
		&InvoiceTemplateModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&QuoteModel{},
		&DeliveryNoteModel{},
		&DocumentSequenceModel{},
		&SubscriptionModel{},
		&ChatMessageModel{},
	}
}

// UniqueIndexes lists the composite unique constraints that struct tags cannot
// express on embedded owner columns. Migrations declare the same indexes.
func UniqueIndexes() []string {
	return []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_user_number ON invoices (user_id, number)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_quotes_user_number ON quotes (user_id, number)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_delivery_notes_user_number ON delivery_notes (user_id, number)",
	}
}
