package model

// TransportType is the load mode of a shipment.
type TransportType string

const (
	TransportFTL TransportType = "FTL"
	TransportPTL TransportType = "PTL"
	TransportLTL TransportType = "LTL"
)

// IsValid reports whether t is a known transport type.
func (t TransportType) IsValid() bool {
	switch t {
	case TransportFTL, TransportPTL, TransportLTL:
		return true
	}
	return false
}

// CargoType is the risk class of the goods.
type CargoType string

const (
	CargoGeneral    CargoType = "general"
	CargoHazardous  CargoType = "hazardous"
	CargoPerishable CargoType = "perishable"
	CargoMachinery  CargoType = "machinery"
	CargoFragile    CargoType = "fragile"
)

func (c CargoType) IsValid() bool {
	switch c {
	case CargoGeneral, CargoHazardous, CargoPerishable, CargoMachinery, CargoFragile:
		return true
	}
	return false
}

// Presentation describes how the goods are packed.
type Presentation string

const (
	PresentationBulk       Presentation = "Granel"
	PresentationPalletized Presentation = "Paletizado"
	PresentationGeneral    Presentation = "General"
)

func (p Presentation) IsValid() bool {
	switch p {
	case PresentationBulk, PresentationPalletized, PresentationGeneral:
		return true
	}
	return false
}

// InsuranceSelection chooses who insures the cargo.
type InsuranceSelection string

const (
	// InsuranceJFC charges the platform insurance on the declared value.
	InsuranceJFC InsuranceSelection = "jfc"
	// InsuranceOwn means the customer carries its own policy.
	InsuranceOwn InsuranceSelection = "own"
)

func (i InsuranceSelection) IsValid() bool {
	return i == InsuranceJFC || i == InsuranceOwn
}

// OrDefault returns InsuranceOwn for the empty selection.
func (i InsuranceSelection) OrDefault() InsuranceSelection {
	if i == "" {
		return InsuranceOwn
	}
	return i
}

// DriverPaymentType selects how the driver is paid.
type DriverPaymentType string

const (
	DriverPerDay  DriverPaymentType = "per_day"
	DriverPercent DriverPaymentType = "percent"
)

func (d DriverPaymentType) IsValid() bool {
	return d == DriverPerDay || d == DriverPercent
}

// FuelID identifies a fuel with its own price per liter.
type FuelID string

const (
	FuelDiesel     FuelID = "diesel"
	FuelGasoline87 FuelID = "gasoline87"
	FuelGasoline91 FuelID = "gasoline91"
)

func (f FuelID) IsValid() bool {
	switch f {
	case FuelDiesel, FuelGasoline87, FuelGasoline91:
		return true
	}
	return false
}

// ServiceLevel is the delivery urgency requested by the customer.
type ServiceLevel string

const (
	ServiceStandard ServiceLevel = "standard"
	ServiceExpress  ServiceLevel = "express"
)

func (s ServiceLevel) IsValid() bool {
	return s == ServiceStandard || s == ServiceExpress
}

// OrDefault returns ServiceStandard for the empty level.
func (s ServiceLevel) OrDefault() ServiceLevel {
	if s == "" {
		return ServiceStandard
	}
	return s
}
