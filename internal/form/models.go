package form

import "time"

type Status string

const (
	StatusIdle    Status = "IDLE"
	StatusLoading Status = "LOADING"
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// values of DeliveryLine.DeliveryOK
const (
	DeliveryOKYes = "Sim"
	DeliveryOKNo  = "Nao"
)

// header wire names, shared by SetHeader and the outbound payload
const (
	FieldDate          = "data"
	FieldClient        = "cliente"
	FieldAssembler     = "montador"
	FieldSite          = "ambiente"
	FieldPurchaseOrder = "ordemCompra"
	FieldResponsible   = "responsavel"
)

// line item wire names
const (
	FieldQuantity      = "quantidade"
	FieldSpecification = "especificacao"
	FieldDescription   = "descricao"
	FieldVolume        = "volume"
	FieldColor         = "cor"
	FieldSupplier      = "fornecedor"
	FieldDeliveryOK    = "entregaOk"
)

type (
	// ServiceLine is one row of the services group. All fields are free text.
	ServiceLine struct {
		ID            string `json:"id"`
		Quantity      string `json:"quantidade"`
		Specification string `json:"especificacao"`
		Description   string `json:"descricao"`
		Volume        string `json:"volume"`
	}

	// DeliveryLine is one row of the deliveries group.
	DeliveryLine struct {
		ID          string `json:"id"`
		Quantity    string `json:"quantidade"`
		Description string `json:"descricao"`
		Color       string `json:"cor"`
		Supplier    string `json:"fornecedor"`
		DeliveryOK  string `json:"entregaOk"`
	}

	// Attachment is a selected file already encoded as a data URI.
	Attachment struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		MimeType string `json:"mimeType"`
		Data     string `json:"data"`
	}

	// RequestForm is the whole state of one form session.
	RequestForm struct {
		ID string `json:"id"`

		Date          string `json:"data"`
		Client        string `json:"cliente"`
		Assembler     string `json:"montador"`
		Site          string `json:"ambiente"`
		PurchaseOrder string `json:"ordemCompra"`
		Responsible   string `json:"responsavel"`

		Services    []ServiceLine  `json:"servicos"`
		Deliveries  []DeliveryLine `json:"entregas"`
		Attachments []Attachment   `json:"files"`

		Status  Status `json:"status"`
		Message string `json:"message,omitempty"`
		// StatusToken changes on every status transition; a delayed
		// return to IDLE only applies while its captured token is current.
		StatusToken uint64 `json:"statusToken"`

		UpdatedAt time.Time `json:"updatedAt"`
	}
)

func (s ServiceLine) Key() string  { return s.ID }
func (d DeliveryLine) Key() string { return d.ID }
func (a Attachment) Key() string   { return a.ID }

func (s ServiceLine) WithField(field, value string) (ServiceLine, error) {
	switch field {
	case FieldQuantity:
		s.Quantity = value
	case FieldSpecification:
		s.Specification = value
	case FieldDescription:
		s.Description = value
	case FieldVolume:
		s.Volume = value
	default:
		return s, &FieldError{Field: field, Err: ErrUnknownField}
	}
	return s, nil
}

func (d DeliveryLine) WithField(field, value string) (DeliveryLine, error) {
	switch field {
	case FieldQuantity:
		d.Quantity = value
	case FieldDescription:
		d.Description = value
	case FieldColor:
		d.Color = value
	case FieldSupplier:
		d.Supplier = value
	case FieldDeliveryOK:
		if value != DeliveryOKYes && value != DeliveryOKNo {
			return d, &FieldError{Field: field, Err: ErrInvalidValue}
		}
		d.DeliveryOK = value
	default:
		return d, &FieldError{Field: field, Err: ErrUnknownField}
	}
	return d, nil
}
