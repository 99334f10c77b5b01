package form

import "expensedesk/internal/domain"

// Storage keys shared between forms.
const (
	KeyProfile      = "userData"
	KeyBasicDetails = "basicDetails"
)

// Admin categories used by the overview counts.
const (
	CategoryApplication          = "applicationForm"
	CategoryAdvanceSettlement    = "advanceSettlement"
	CategoryExpenseReimbursement = "expenseReimbursement"
)

func builtins() []*Schema {
	return []*Schema{
		{
			Kind:         domain.FormProfile,
			Title:        "Profile",
			CanonicalKey: KeyProfile,
			DraftKey:     "userProfileDraft",
			Fields: []Field{
				{"name", "Name"},
				{"email", "Email"},
				{"department", "Department"},
				{"phone", "Phone"},
				{"designation", "Designation"},
				{"office", "Office"},
				{"bio", "Bio"},
				{"avatarDataUrl", "Avatar"},
			},
			Rules: []Rule{
				{"name", "required", "name is required"},
				{"email", "required,email", "a valid email is required"},
				{"department", "required", "department is required"},
			},
			AvatarField: "avatarDataUrl",
			FileName:    "Profile",
		},
		{
			Kind:         domain.FormBasicDetails,
			Title:        "Expense Reimbursement",
			CanonicalKey: KeyBasicDetails,
			DraftKey:     "basicDetailsDraft",
			Fields: []Field{
				{"name", "Name"},
				{"employeeId", "Employee ID"},
				{"department", "Department"},
			},
			Identity:    &Identity{FullName: "name", Department: "department"},
			PrefillFrom: []string{KeyProfile},
			Rules: []Rule{
				{"name", "required", "name is required"},
				{"employeeId", "required", "employee id is required"},
				{"department", "required", "department is required"},
			},
			FileName:      "Basic_Details",
			NextAfterSave: string(domain.FormWithBill),
		},
		{
			Kind:         domain.FormApplication,
			Title:        "Advance Application",
			CanonicalKey: "applicationForm",
			DraftKey:     "applicationDraft",
			Fields: []Field{
				{"name", "Name"},
				{"department", "Department"},
				{"amount", "Amount"},
				{"purpose", "Purpose"},
				{"justification", "Justification"},
				{"date", "Expected Settlement Date"},
			},
			Identity:    &Identity{FullName: "name", Department: "department"},
			PrefillFrom: []string{KeyBasicDetails, KeyProfile},
			Rules: []Rule{
				{"name", "required", "name is required"},
				{"department", "required", "department is required"},
				{"amount", "required,positive_amount", "amount must be greater than 0"},
				{"purpose", "required", "purpose is required"},
				{"date", "required", "expected settlement date is required"},
			},
			SubmitPath:    "/api/application",
			FileName:      "Advance_Application",
			AdminCategory: CategoryApplication,
		},
		{
			Kind:         domain.FormAdvanceSettlement,
			Title:        "Advance Settlement",
			CanonicalKey: "advanceSettlement",
			DraftKey:     "advanceSettlementDraft",
			Fields: []Field{
				{"firstName", "First Name"},
				{"lastName", "Last Name"},
				{"designation", "Designation"},
				{"amount", "Total Expense"},
				{"details", "Details"},
			},
			Identity:    &Identity{First: "firstName", Last: "lastName"},
			PrefillFrom: []string{KeyBasicDetails, KeyProfile},
			Rules: []Rule{
				{"firstName", "required", "first name is required"},
				{"lastName", "required", "last name is required"},
				{"amount", "omitempty,amount", "amount must be a number"},
			},
			SubmitPath:    "/api/settlement",
			FileName:      "Advance_Settlement",
			AdminCategory: CategoryAdvanceSettlement,
		},
		{
			Kind:         domain.FormWithBill,
			Title:        "Expense Reimbursement (With Bill)",
			CanonicalKey: "withBillForm",
			DraftKey:     "withBillDraft",
			Fields: []Field{
				{"college", "College"},
				{"date", "Date"},
				{"firstName", "First Name"},
				{"lastName", "Last Name"},
				{"department", "Department"},
				{"designation", "Designation"},
				{"gst", "GST %"},
				{"purpose", "Purpose"},
			},
			RowFields: []Field{
				{"date", "Date"},
				{"purpose", "Purpose"},
				{"party", "Party"},
				{"billNo", "Bill No"},
				{"amount", "Amount"},
			},
			RateField:   "gst",
			Identity:    &Identity{First: "firstName", Last: "lastName", Department: "department"},
			PrefillFrom: []string{KeyBasicDetails, KeyProfile},
			Rules: []Rule{
				{"firstName", "required", "name is required"},
				{"department", "required", "department is required"},
				{"date", "required", "date is required"},
				{"gst", "omitempty,amount", "GST must be a number"},
			},
			SubmitPath:    "/api/reimbursement/with-bill",
			FileName:      "Reimbursement_With_Bill",
			AdminCategory: CategoryExpenseReimbursement,
		},
		{
			Kind:         domain.FormWithoutBill,
			Title:        "Expense Reimbursement (Without Bill)",
			CanonicalKey: "withoutBillForm",
			DraftKey:     "withoutBillDraft",
			Fields: []Field{
				{"college", "College"},
				{"date", "Date"},
				{"staffName", "Staff Name"},
				{"designation", "Designation"},
				{"department", "Department"},
				{"advanceAmount", "Advance Amount"},
				{"advanceDate", "Advance Date"},
				{"purpose", "Purpose"},
			},
			RowFields: []Field{
				{"date", "Date"},
				{"expenditure", "Expenditure"},
				{"amount", "Amount"},
			},
			AdvanceField: "advanceAmount",
			Identity:     &Identity{FullName: "staffName", Department: "department"},
			PrefillFrom:  []string{KeyBasicDetails, KeyProfile},
			Rules: []Rule{
				{"staffName", "required", "staff name is required"},
				{"department", "required", "department is required"},
				{"date", "required", "date is required"},
				{"advanceAmount", "omitempty,amount", "advance amount must be a number"},
			},
			SubmitPath:    "/api/reimbursement/without-bill",
			FileName:      "Reimbursement_Without_Bill",
			AdminCategory: CategoryExpenseReimbursement,
		},
	}
}
