package validators

type ProductCreateRequest struct {
	Title        string   `json:"title" validate:"required,max=150"`
	Description  string   `json:"description" validate:"required,max=5000"`
	Category     string   `json:"category" validate:"required,product_category"`
	Game         string   `json:"game" validate:"required,max=100"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	Conditions   []string `json:"conditions" validate:"omitempty,max=10"`
	Rarity       string   `json:"rarity" validate:"omitempty,max=50"`
	Level        int      `json:"level" validate:"omitempty,gte=0"`
	DeliveryTime int      `json:"delivery_time" validate:"omitempty,gte=0"`
}

type ProductUpdateRequest struct {
	Title        string  `json:"title" validate:"omitempty,max=150"`
	Description  string  `json:"description" validate:"omitempty,max=5000"`
	Price        float64 `json:"price" validate:"omitempty,gt=0"`
	DeliveryTime int     `json:"delivery_time" validate:"omitempty,gte=0"`
}

func ValidateProductCreate(req *ProductCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateProductUpdate(req *ProductUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}
