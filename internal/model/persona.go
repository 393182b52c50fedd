package model

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUsuario       Role = `usuario`
	RoleAdministrador Role = `administrador`
)

func RoleFromString(want string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(want))) {
	case RoleUsuario:
		return RoleUsuario, nil
	case RoleAdministrador:
		return RoleAdministrador, nil
	}
	return ``, fmt.Errorf(`role "%s": %w`, want, ErrInvalidInput)
}

type Persona struct {
	Id            int     `json:"id"`
	Tipo          Role    `json:"tipo"`
	Usuario       string  `json:"usuario"`
	Contrasena    string  `json:"contraseña,omitempty"`
	Email         string  `json:"email"`
	Iglesia       string  `json:"iglesia"`
	CargoIglesia  *string `json:"cargo_iglesia"`
	CargoZonal    *string `json:"cargo_zonal"`
	CargoNacional *string `json:"cargo_nacional"`
	Rol           *string `json:"rol,omitempty"`
}

// Validate checks the fields shared by both roles and the role tag itself.
// Administrators must carry a rol; plain users must not.
func (persona Persona) Validate() error {
	if strings.TrimSpace(persona.Usuario) == `` {
		return fmt.Errorf(`usuario is required: %w`, ErrInvalidInput)
	}
	if !validEmail(persona.Email) {
		return fmt.Errorf(`email "%s" is malformed: %w`, persona.Email, ErrInvalidInput)
	}
	switch persona.Tipo {
	case RoleUsuario:
		if persona.Rol != nil {
			return fmt.Errorf(`rol is only valid for administrador: %w`, ErrInvalidInput)
		}
	case RoleAdministrador:
		if persona.Rol == nil || strings.TrimSpace(*persona.Rol) == `` {
			return fmt.Errorf(`rol is required for administrador: %w`, ErrInvalidInput)
		}
	default:
		return fmt.Errorf(`tipo "%s": %w`, persona.Tipo, ErrInvalidInput)
	}
	return nil
}

// Public returns the persona without its password, for responses.
func (persona Persona) Public() Persona {
	persona.Contrasena = ``
	return persona
}

func validEmail(email string) bool {
	at := strings.LastIndex(email, `@`)
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, `.`)
	return dot > 0 && dot < len(domain)-1
}

type Faq struct {
	Id          int    `json:"id"`
	Pregunta    string `json:"pregunta"`
	Descripcion string `json:"descripcion"`
}

func (faq Faq) Validate() error {
	if strings.TrimSpace(faq.Pregunta) == `` {
		return fmt.Errorf(`pregunta is required: %w`, ErrInvalidInput)
	}
	return nil
}

type DeleteResult struct {
	Removed []int `json:"eliminados"`
	Missing []int `json:"no_encontrados"`
}
