package form

type (
	// Payload is what the remote endpoint receives under "data".
	// Local identifiers never leave the service.
	Payload struct {
		Date          string `json:"data"`
		Client        string `json:"cliente"`
		Assembler     string `json:"montador"`
		Site          string `json:"ambiente"`
		PurchaseOrder string `json:"ordemCompra"`
		Responsible   string `json:"responsavel"`

		Services   []ServicePayload    `json:"servicos"`
		Deliveries []DeliveryPayload   `json:"entregas"`
		Files      []AttachmentPayload `json:"filesData"`

		NumServices   int `json:"numServicos"`
		NumDeliveries int `json:"numEntregas"`
	}

	ServicePayload struct {
		Quantity      string `json:"quantidade"`
		Specification string `json:"especificacao"`
		Description   string `json:"descricao"`
		Volume        string `json:"volume"`
	}

	DeliveryPayload struct {
		Quantity    string `json:"quantidade"`
		Description string `json:"descricao"`
		Color       string `json:"cor"`
		Supplier    string `json:"fornecedor"`
		DeliveryOK  string `json:"entregaOk"`
	}

	AttachmentPayload struct {
		Name     string `json:"name"`
		MimeType string `json:"mimeType"`
		Data     string `json:"data"`
	}
)

func (f *RequestForm) Payload() Payload {
	p := Payload{
		Date:          f.Date,
		Client:        f.Client,
		Assembler:     f.Assembler,
		Site:          f.Site,
		PurchaseOrder: f.PurchaseOrder,
		Responsible:   f.Responsible,

		Services:   make([]ServicePayload, 0, len(f.Services)),
		Deliveries: make([]DeliveryPayload, 0, len(f.Deliveries)),
		Files:      make([]AttachmentPayload, 0, len(f.Attachments)),

		NumServices:   len(f.Services),
		NumDeliveries: len(f.Deliveries),
	}

	for _, s := range f.Services {
		p.Services = append(p.Services, ServicePayload{
			Quantity:      s.Quantity,
			Specification: s.Specification,
			Description:   s.Description,
			Volume:        s.Volume,
		})
	}
	for _, d := range f.Deliveries {
		p.Deliveries = append(p.Deliveries, DeliveryPayload{
			Quantity:    d.Quantity,
			Description: d.Description,
			Color:       d.Color,
			Supplier:    d.Supplier,
			DeliveryOK:  d.DeliveryOK,
		})
	}
	for _, a := range f.Attachments {
		p.Files = append(p.Files, AttachmentPayload{
			Name:     a.Name,
			MimeType: a.MimeType,
			Data:     a.Data,
		})
	}

	return p
}
