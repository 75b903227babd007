package location

import "math"

func validateInput(in *Input) []FieldError {
	var errs []FieldError

	if in.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "is required"})
	}
	errs = append(errs, validateCoordinates(in.Coordinates)...)
	errs = append(errs, validateCount("totalPopulation", in.TotalPopulation)...)
	errs = append(errs, validateCount("affectedFamilies", in.AffectedFamilies)...)
	errs = append(errs, validateSupply("currentSupply", in.CurrentSupply)...)
	errs = append(errs, validateSupply("promisedSupply", in.PromisedSupply)...)
	if in.RequiredSupply != 0 {
		errs = append(errs, validateRequired(in.RequiredSupply)...)
	}
	if in.UrgencyLevel != "" && !in.UrgencyLevel.Valid() {
		errs = append(errs, FieldError{Field: "urgencyLevel", Message: "must be one of critical, high, medium, low, oversupplied"})
	}
	errs = append(errs, validateDemographics(in.Demographics)...)

	return errs
}

func validatePatch(p *Patch) []FieldError {
	var errs []FieldError

	if p.Name != nil && *p.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "must not be empty"})
	}
	if p.Coordinates != nil {
		errs = append(errs, validateCoordinates(*p.Coordinates)...)
	}
	if p.TotalPopulation != nil {
		errs = append(errs, validateCount("totalPopulation", *p.TotalPopulation)...)
	}
	if p.AffectedFamilies != nil {
		errs = append(errs, validateCount("affectedFamilies", *p.AffectedFamilies)...)
	}
	if p.CurrentSupply != nil {
		errs = append(errs, validateSupply("currentSupply", *p.CurrentSupply)...)
	}
	if p.PromisedSupply != nil {
		errs = append(errs, validateSupply("promisedSupply", *p.PromisedSupply)...)
	}
	if p.RequiredSupply != nil {
		errs = append(errs, validateRequired(*p.RequiredSupply)...)
	}
	if p.UrgencyLevel != nil && !p.UrgencyLevel.Valid() {
		errs = append(errs, FieldError{Field: "urgencyLevel", Message: "must be one of critical, high, medium, low, oversupplied"})
	}
	if p.Demographics != nil {
		errs = append(errs, validateDemographics(*p.Demographics)...)
	}

	return errs
}

func validateCoordinates(p Point) []FieldError {
	var errs []FieldError
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		errs = append(errs, FieldError{Field: "coordinates.lat", Message: "must be between -90 and 90"})
	}
	if math.IsNaN(p.Lng) || p.Lng < -180 || p.Lng > 180 {
		errs = append(errs, FieldError{Field: "coordinates.lng", Message: "must be between -180 and 180"})
	}
	return errs
}

func validateCount(field string, n int) []FieldError {
	if n < 0 {
		return []FieldError{{Field: field, Message: "must not be negative"}}
	}
	return nil
}

func validateSupply(field string, v float64) []FieldError {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []FieldError{{Field: field, Message: "must be a finite number"}}
	}
	if v < 0 {
		return []FieldError{{Field: field, Message: "must not be negative"}}
	}
	return nil
}

func validateRequired(v float64) []FieldError {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return []FieldError{{Field: "requiredSupply", Message: "must be a positive finite number"}}
	}
	return nil
}

func validateDemographics(d Demographics) []FieldError {
	var errs []FieldError
	errs = append(errs, validateCount("demographics.children", d.Children)...)
	errs = append(errs, validateCount("demographics.elderly", d.Elderly)...)
	errs = append(errs, validateCount("demographics.disabled", d.Disabled)...)
	errs = append(errs, validateCount("demographics.pregnant", d.Pregnant)...)
	return errs
}
