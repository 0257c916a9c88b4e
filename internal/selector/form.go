package selector

import "strings"

// Notification is a transient message shown to the visitor.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

const (
	MsgSchoolRequired = "Seleccion de escuela necesario"
	MsgIncompleteForm = "Formulario incompleto"
)

// Form is the public submission form.
type Form struct {
	Cascade *Cascade
	Title   string
	Content string
}

// Validate returns nil when the form may be submitted.
func (f Form) Validate() *Notification {
	if f.Cascade == nil {
		return &Notification{Title: MsgSchoolRequired, Description: "Selecciona una escuela antes de enviar."}
	}
	if _, ok := f.Cascade.School(); !ok {
		return &Notification{Title: MsgSchoolRequired, Description: "Selecciona una escuela antes de enviar."}
	}
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Content) == "" {
		return &Notification{Title: MsgIncompleteForm, Description: "Llena todos los campos."}
	}
	return nil
}
