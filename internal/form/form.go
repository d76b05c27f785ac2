package form

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// New creates a form session in its initial state.
func New(id string, now time.Time) *RequestForm {
	f := &RequestForm{
		ID:     id,
		Status: StatusIdle,
	}
	f.Reset(now)
	return f
}

func NewServiceLine() ServiceLine {
	return ServiceLine{ID: uuid.NewString()}
}

func NewDeliveryLine() DeliveryLine {
	return DeliveryLine{ID: uuid.NewString(), DeliveryOK: DeliveryOKYes}
}

// Reset clears the header, lines and attachments and seeds one empty line of
// each group. The date goes back to the current day. Status is left alone.
func (f *RequestForm) Reset(now time.Time) {
	f.Date = now.Format(DateLayout)
	f.Client = ""
	f.Assembler = ""
	f.Site = ""
	f.PurchaseOrder = ""
	f.Responsible = ""

	f.Services = Append([]ServiceLine{}, NewServiceLine())
	f.Deliveries = Append([]DeliveryLine{}, NewDeliveryLine())
	f.Attachments = []Attachment{}

	f.UpdatedAt = now
}

// SetHeader sets a header field by its wire name.
func (f *RequestForm) SetHeader(field, value string) error {
	switch field {
	case FieldDate:
		f.Date = value
	case FieldClient:
		f.Client = value
	case FieldAssembler:
		f.Assembler = value
	case FieldSite:
		f.Site = value
	case FieldPurchaseOrder:
		f.PurchaseOrder = value
	case FieldResponsible:
		f.Responsible = value
	default:
		return &FieldError{Field: field, Err: ErrUnknownField}
	}
	return nil
}

func (f *RequestForm) AddServiceLine() ServiceLine {
	line := NewServiceLine()
	f.Services = Append(f.Services, line)
	return line
}

func (f *RequestForm) UpdateServiceLine(id, field, value string) error {
	if !Contains(f.Services, id) {
		return ErrUnknownLine
	}
	services, err := UpdateField(f.Services, id, field, value)
	if err != nil {
		return err
	}
	f.Services = services
	return nil
}

func (f *RequestForm) RemoveServiceLine(id string) error {
	if !Contains(f.Services, id) {
		return ErrUnknownLine
	}
	f.Services = Remove(f.Services, id)
	return nil
}

func (f *RequestForm) AddDeliveryLine() DeliveryLine {
	line := NewDeliveryLine()
	f.Deliveries = Append(f.Deliveries, line)
	return line
}

func (f *RequestForm) UpdateDeliveryLine(id, field, value string) error {
	if !Contains(f.Deliveries, id) {
		return ErrUnknownLine
	}
	deliveries, err := UpdateField(f.Deliveries, id, field, value)
	if err != nil {
		return err
	}
	f.Deliveries = deliveries
	return nil
}

func (f *RequestForm) RemoveDeliveryLine(id string) error {
	if !Contains(f.Deliveries, id) {
		return ErrUnknownLine
	}
	f.Deliveries = Remove(f.Deliveries, id)
	return nil
}

// AddAttachments appends in the given order.
func (f *RequestForm) AddAttachments(files ...Attachment) {
	for _, file := range files {
		f.Attachments = Append(f.Attachments, file)
	}
}

func (f *RequestForm) RemoveAttachment(id string) error {
	if !Contains(f.Attachments, id) {
		return ErrUnknownLine
	}
	f.Attachments = Remove(f.Attachments, id)
	return nil
}

// Validate checks the required header fields: date, client and assembler.
func (f *RequestForm) Validate() error {
	var missing []string
	if strings.TrimSpace(f.Date) == "" {
		missing = append(missing, FieldDate)
	}
	if strings.TrimSpace(f.Client) == "" {
		missing = append(missing, FieldClient)
	}
	if strings.TrimSpace(f.Assembler) == "" {
		missing = append(missing, FieldAssembler)
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
