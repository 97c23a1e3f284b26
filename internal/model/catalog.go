package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier is a registered provider that can appear as a candidate on
// comparative quotes and as the payee of payment orders.
type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Codigo        string    `gorm:"type:varchar(20);uniqueIndex" json:"codigo"`
	NombreEmpresa string    `gorm:"type:varchar(200);not null" json:"nombre_empresa"`
	Direccion     string    `gorm:"type:varchar(250)" json:"direccion"`
	Telefono      string    `gorm:"type:varchar(50)" json:"telefono"`

	DatosTransferencia string `gorm:"type:varchar(250)" json:"datos_transferencia"`
	Entidad            string `gorm:"type:varchar(100)" json:"entidad"` // bank / entity
	NroCuenta          string `gorm:"type:varchar(50)" json:"nro_cuenta"`

	CI          string `gorm:"type:varchar(30)" json:"ci"`
	NIT         string `gorm:"type:varchar(30)" json:"nit"`
	Descripcion string `gorm:"type:text" json:"descripcion"`

	Activo    bool           `gorm:"default:true" json:"activo"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Product is a purchasable item requested on quotes.
type Product struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Nombre    string         `gorm:"type:varchar(200);not null" json:"nombre"`
	Unidad    string         `gorm:"type:varchar(30);not null;default:'Und'" json:"unidad"`
	Activo    bool           `gorm:"default:true" json:"activo"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
