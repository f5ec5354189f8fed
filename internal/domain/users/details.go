package users

// RoleDetails is the role-specific part of a new user. Exactly one variant
// exists per role; the unexported method keeps the set closed.
type RoleDetails interface {
	Role() Role
	record(userID, name, email string) RoleRecord
}

type AdminDetails struct {
	AdminCode string
}

type CookDetails struct {
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	PostalCode   string
	PictureURL   string
}

type DriverDetails struct {
	Phone      string
	PictureURL string
}

type EmployeeDetails struct {
	EmployeeCode string
	CompanyID    *int64
	Phone        string
}

func (AdminDetails) Role() Role { return RoleAdmin }
func (CookDetails) Role() Role { return RoleCook }
func (DriverDetails) Role() Role { return RoleDriver }
func (EmployeeDetails) Role() Role { return RoleEmployee }

func (d AdminDetails) record(userID, name, email string) RoleRecord {
	return &Admin{UserID: userID, Name: name, Email: email, AdminCode: d.AdminCode}
}

func (d CookDetails) record(userID, name, email string) RoleRecord {
	return &Cook{
		UserID:       userID,
		Name:         name,
		Email:        email,
		Phone:        d.Phone,
		AddressLine1: d.AddressLine1,
		AddressLine2: d.AddressLine2,
		City:         d.City,
		PostalCode:   d.PostalCode,
		PictureURL:   d.PictureURL,
	}
}

func (d DriverDetails) record(userID, name, email string) RoleRecord {
	return &Driver{UserID: userID, Name: name, Email: email, Phone: d.Phone, PictureURL: d.PictureURL}
}

func (d EmployeeDetails) record(userID, name, email string) RoleRecord {
	return &Employee{
		UserID:       userID,
		Name:         name,
		Email:        email,
		Phone:        d.Phone,
		EmployeeCode: d.EmployeeCode,
		CompanyID:    d.CompanyID,
	}
}

// DetailsFor picks the variant for role from the flat request attributes.
// It returns false for a role outside the four known ones.
func DetailsFor(role Role, attrs Attributes) (RoleDetails, bool) {
	switch role {
	case RoleAdmin:
		return AdminDetails{AdminCode: attrs.AdminCode}, true
	case RoleCook:
		return CookDetails{
			Phone:        attrs.Phone,
			AddressLine1: attrs.AddressLine1,
			AddressLine2: attrs.AddressLine2,
			City:         attrs.City,
			PostalCode:   attrs.PostalCode,
			PictureURL:   attrs.PictureURL,
		}, true
	case RoleDriver:
		return DriverDetails{Phone: attrs.Phone, PictureURL: attrs.PictureURL}, true
	case RoleEmployee:
		return EmployeeDetails{EmployeeCode: attrs.EmployeeCode, CompanyID: attrs.CompanyID, Phone: attrs.Phone}, true
	default:
		return nil, false
	}
}
