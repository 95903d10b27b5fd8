package models

// Update payloads use pointer fields so the server (and the gateway
// client marshalling them) can tell "unset" apart from a zero value.

type PsaCardUpdate struct {
	CardName   *string   `json:"cardName,omitempty"`
	SetName    *string   `json:"setName,omitempty"`
	CardNumber *string   `json:"cardNumber,omitempty"`
	Grade      *int      `json:"grade,omitempty"`
	MyPrice    *float64  `json:"myPrice,omitempty"`
	Images     *[]string `json:"images,omitempty"`
}

type RawCardUpdate struct {
	CardName   *string   `json:"cardName,omitempty"`
	SetName    *string   `json:"setName,omitempty"`
	CardNumber *string   `json:"cardNumber,omitempty"`
	Condition  *string   `json:"condition,omitempty"`
	MyPrice    *float64  `json:"myPrice,omitempty"`
	Images     *[]string `json:"images,omitempty"`
}

type SealedProductUpdate struct {
	ProductName *string   `json:"productName,omitempty"`
	SetName     *string   `json:"setName,omitempty"`
	Category    *string   `json:"category,omitempty"`
	MyPrice     *float64  `json:"myPrice,omitempty"`
	Images      *[]string `json:"images,omitempty"`
}
