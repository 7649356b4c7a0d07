package slides

// Address parts of a listing. All fields are optional.
type Address struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

// Contact is the call-to-action block printed on the last slide.
type Contact struct {
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	License   string `json:"license,omitempty"`
}

// PropertyData describes a listing being advertised. Price is free text as
// typed by the agent, e.g. "R$ 850.000,00".
type PropertyData struct {
	Title        string   `json:"title"`
	PropertyType string   `json:"property_type,omitempty"`
	Purpose      string   `json:"purpose,omitempty"`
	Address      Address  `json:"address"`
	Price        string   `json:"price,omitempty"`
	CondoFee     string   `json:"condo_fee,omitempty"`
	PropertyTax  string   `json:"property_tax,omitempty"`
	Bedrooms     int      `json:"bedrooms,omitempty"`
	Suites       int      `json:"suites,omitempty"`
	Bathrooms    int      `json:"bathrooms,omitempty"`
	Parking      int      `json:"parking,omitempty"`
	Area         string   `json:"area,omitempty"`
	Features     []string `json:"features,omitempty"`
	Description  string   `json:"description,omitempty"`

	AcceptsFinancing bool `json:"accepts_financing,omitempty"`
	AcceptsExchange  bool `json:"accepts_exchange,omitempty"`
	Furnished        bool `json:"furnished,omitempty"`

	Contact Contact `json:"contact"`
}

// ManagementData describes a property-management service being advertised.
type ManagementData struct {
	CompanyName   string   `json:"company_name"`
	Headline      string   `json:"headline,omitempty"`
	Services      []string `json:"services,omitempty"`
	Differentials []string `json:"differentials,omitempty"`
	Description   string   `json:"description,omitempty"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	Contact       Contact  `json:"contact"`
}
