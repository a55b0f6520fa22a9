package warehouse

import (
	"strings"
	"time"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseStatus represents the status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusInactive WarehouseStatus = "inactive"
)

// WarehouseType represents the level of a warehouse in the distribution hierarchy
type WarehouseType string

const (
	// WarehouseTypeMain is a top-level distribution center
	WarehouseTypeMain WarehouseType = "main"
	// WarehouseTypeRegional is a regional hub below a main warehouse
	WarehouseTypeRegional WarehouseType = "regional"
	// WarehouseTypeBranch is a store-bound warehouse at the bottom of the hierarchy
	WarehouseTypeBranch WarehouseType = "branch"
)

// IsValid returns true if the warehouse type is valid
func (t WarehouseType) IsValid() bool {
	switch t {
	case WarehouseTypeMain, WarehouseTypeRegional, WarehouseTypeBranch:
		return true
	}
	return false
}

// String returns the string representation of WarehouseType
func (t WarehouseType) String() string {
	return string(t)
}

// CanHaveParentOfType reports whether a warehouse of this type may be a child
// of a warehouse of the given parent type. Main warehouses never have a
// parent; regional warehouses hang off a main; branch warehouses hang off a
// main or a regional.
func (t WarehouseType) CanHaveParentOfType(parent WarehouseType) bool {
	switch t {
	case WarehouseTypeMain:
		return false
	case WarehouseTypeRegional:
		return parent == WarehouseTypeMain
	case WarehouseTypeBranch:
		return parent == WarehouseTypeMain || parent == WarehouseTypeRegional
	}
	return false
}

// RequiresParent returns true if a warehouse of this type must have a parent
func (t WarehouseType) RequiresParent() bool {
	return t != WarehouseTypeMain
}

// Warehouse is the aggregate root for the warehouse directory. A warehouse is
// a node in the main → regional → branch hierarchy; a branch warehouse may
// additionally be bound to a single retail store.
type Warehouse struct {
	shared.BaseAggregateRoot
	Code              string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_warehouse_code"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Type              WarehouseType   `gorm:"type:varchar(20);not null"`
	Status            WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ParentWarehouseID *uuid.UUID      `gorm:"type:uuid;index"`
	StoreID           *uuid.UUID      `gorm:"type:uuid;index"` // Bound retail store (branch only)
	Address           string          `gorm:"type:text"`
	City              string          `gorm:"type:varchar(100)"`
	Province          string          `gorm:"type:varchar(100)"`
	PostalCode        string          `gorm:"type:varchar(20)"`
	ContactName       string          `gorm:"type:varchar(100)"`
	Phone             string          `gorm:"type:varchar(50)"`
	Notes             string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse with required fields.
// Parent consistency against the actual parent record is enforced by the
// application service, which is the only place both records are loaded.
func NewWarehouse(code, name string, warehouseType WarehouseType, parentID *uuid.UUID) (*Warehouse, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !warehouseType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid warehouse type")
	}
	if warehouseType == WarehouseTypeMain && parentID != nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "A main warehouse cannot have a parent")
	}
	if warehouseType.RequiresParent() && parentID == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "A "+warehouseType.String()+" warehouse requires a parent warehouse")
	}

	w := &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Type:              warehouseType,
		Status:            WarehouseStatusActive,
		ParentWarehouseID: parentID,
	}

	w.AddDomainEvent(NewWarehouseCreatedEvent(w))

	return w, nil
}

// Update updates the warehouse's basic information
func (w *Warehouse) Update(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	w.Name = name
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWarehouseUpdatedEvent(w))

	return nil
}

// UpdateCode updates the warehouse's code
func (w *Warehouse) UpdateCode(code string) error {
	if err := validateCode(code); err != nil {
		return err
	}

	w.Code = strings.ToUpper(code)
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWarehouseUpdatedEvent(w))

	return nil
}

// SetParent re-parents the warehouse. The caller must have verified the
// parent's type against CanHaveParentOfType and checked for cycles.
func (w *Warehouse) SetParent(parentID *uuid.UUID) error {
	if w.Type == WarehouseTypeMain && parentID != nil {
		return shared.NewDomainError("INVALID_PARENT", "A main warehouse cannot have a parent")
	}
	if w.Type.RequiresParent() && parentID == nil {
		return shared.NewDomainError("INVALID_PARENT", "A "+w.Type.String()+" warehouse requires a parent warehouse")
	}
	if parentID != nil && *parentID == w.ID {
		return shared.NewDomainError("INVALID_PARENT", "A warehouse cannot be its own parent")
	}

	w.ParentWarehouseID = parentID
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// BindStore binds the warehouse to a retail store. Only branch warehouses
// serve a storefront directly.
func (w *Warehouse) BindStore(storeID uuid.UUID) error {
	if w.Type != WarehouseTypeBranch {
		return shared.NewDomainError("INVALID_STORE_BINDING", "Only branch warehouses can be bound to a store")
	}
	if storeID == uuid.Nil {
		return shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}

	w.StoreID = &storeID
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// UnbindStore removes the store binding
func (w *Warehouse) UnbindStore() {
	w.StoreID = nil
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// SetAddress sets the warehouse's address information
func (w *Warehouse) SetAddress(address, city, province, postalCode string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if city != "" && len(city) > 100 {
		return shared.NewDomainError("INVALID_CITY", "City cannot exceed 100 characters")
	}
	if province != "" && len(province) > 100 {
		return shared.NewDomainError("INVALID_PROVINCE", "Province cannot exceed 100 characters")
	}
	if postalCode != "" && len(postalCode) > 20 {
		return shared.NewDomainError("INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters")
	}

	w.Address = address
	w.City = city
	w.Province = province
	w.PostalCode = postalCode
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetContact sets the warehouse's contact information
func (w *Warehouse) SetContact(contactName, phone string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	w.ContactName = contactName
	w.Phone = phone
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetNotes sets the warehouse's notes
func (w *Warehouse) SetNotes(notes string) {
	w.Notes = notes
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Activate makes an inactive warehouse active again
func (w *Warehouse) Activate() error {
	if w.Status == WarehouseStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Warehouse is already active")
	}

	oldStatus := w.Status
	w.Status = WarehouseStatusActive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWarehouseStatusChangedEvent(w, oldStatus, WarehouseStatusActive))

	return nil
}

// Deactivate soft-disables the warehouse. The application service verifies
// that no stock remains and no open inventory requests reference it first.
func (w *Warehouse) Deactivate() error {
	if w.Status == WarehouseStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Warehouse is already inactive")
	}

	oldStatus := w.Status
	w.Status = WarehouseStatusInactive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWarehouseStatusChangedEvent(w, oldStatus, WarehouseStatusInactive))

	return nil
}

// IsActive returns true if the warehouse is active
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}

// IsBranch returns true if this is a branch warehouse
func (w *Warehouse) IsBranch() bool {
	return w.Type == WarehouseTypeBranch
}

// IsCentral returns true if this warehouse can act as a replenishment source
// (main or regional level).
func (w *Warehouse) IsCentral() bool {
	return w.Type == WarehouseTypeMain || w.Type == WarehouseTypeRegional
}

// GetFullAddress returns the formatted full address
func (w *Warehouse) GetFullAddress() string {
	parts := []string{}
	if w.Province != "" {
		parts = append(parts, w.Province)
	}
	if w.City != "" {
		parts = append(parts, w.City)
	}
	if w.Address != "" {
		parts = append(parts, w.Address)
	}
	if w.PostalCode != "" {
		parts = append(parts, w.PostalCode)
	}
	return strings.Join(parts, " ")
}

// Validation functions

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Warehouse code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot exceed 200 characters")
	}
	return nil
}
