package validators

type TicketCreateRequest struct {
	Subject     string `json:"subject" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
	Priority    string `json:"priority" validate:"omitempty,ticket_priority"`
}

type TicketMessageRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

type TicketStatusRequest struct {
	Status string `json:"status" validate:"required,ticket_status"`
}

func ValidateTicketCreate(req *TicketCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateTicketMessage(req *TicketMessageRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateTicketStatus(req *TicketStatusRequest) ValidationErrors {
	return ValidateStruct(req)
}
