// formajoy-api/internal/identity/resolver.go

// Package identity resolves callers across the four disjoint account tables
// (admins, teachers, students, organizations). A credential claims one role;
// authenticated lookups consult only that role's table. Registration is the
// single place cross-table email uniqueness is enforced: no shared unique
// index exists across the four tables.
package identity

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/baxirbajja/Formajoy-api/internal/apperr"
	"github.com/baxirbajja/Formajoy-api/models"
)

// ErrAccountNotFound marks a structurally valid credential whose account no
// longer exists (deleted behind a live token). Outwardly identical to any
// other 401, but distinguishable for logging.
var ErrAccountNotFound = &apperr.Error{Kind: apperr.Unauthenticated, Message: "Compte introuvable"}

var errInvalidCredentials = apperr.New(apperr.Unauthenticated, "Identifiants invalides")

type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve loads the account a verified credential points at. Only the table
// named by claims.Role is consulted.
func (r *Resolver) Resolve(claims Claims) (Account, error) {
	acc := Account{Role: claims.Role}
	var err error
	switch claims.Role {
	case models.RoleAdmin:
		var m models.Admin
		err = r.db.First(&m, claims.UserID).Error
		acc.Admin = &m
	case models.RoleTeacher:
		var m models.Teacher
		err = r.db.First(&m, claims.UserID).Error
		acc.Teacher = &m
	case models.RoleStudent:
		var m models.Student
		err = r.db.First(&m, claims.UserID).Error
		acc.Student = &m
	case models.RoleOrganization:
		var m models.Organization
		err = r.db.First(&m, claims.UserID).Error
		acc.Organization = &m
	default:
		return Account{}, apperr.Newf(apperr.Unauthenticated, "rôle inconnu: %s", claims.Role)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, apperr.Wrap(apperr.Internal, "échec du chargement du compte", err)
	}
	return acc, nil
}

// RegisterInput is the superset of fields accepted at registration; which
// ones apply depends on the role.
type RegisterInput struct {
	LastName  string     `json:"nom"`
	FirstName string     `json:"prenom"`
	Email     string     `json:"email" binding:"required,email"`
	Password  string     `json:"password" binding:"required,min=6"`
	Role      string     `json:"role"`
	Phone     string     `json:"telephone"`
	Address   string     `json:"adresse"`
	BirthDate *time.Time `json:"dateNaissance"`

	// Teacher fields.
	Specialty         string  `json:"specialite"`
	CommissionPercent float64 `json:"pourcentageProfit"`
	Salary            float64 `json:"salaire"`

	// Organization fields.
	OrganizationName string `json:"nomOrganisation"`
	Sector           string `json:"secteurActivite"`
	ContactName      string `json:"personneContact"`
	ContactEmail     string `json:"emailContact"`

	PromotionPercent float64 `json:"promotionApplicable"`
}

// Register creates a new account in the table matching input.Role. The email
// must be unused in all four tables.
func (r *Resolver) Register(input RegisterInput) (Account, error) {
	taken, err := r.emailTaken(input.Email)
	if err != nil {
		return Account{}, err
	}
	if taken {
		return Account{}, apperr.New(apperr.Validation, "Cet email est déjà utilisé")
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return Account{}, err
	}

	acc := Account{Role: input.Role}
	switch input.Role {
	case models.RoleTeacher:
		m := models.Teacher{
			LastName:          input.LastName,
			FirstName:         input.FirstName,
			Email:             input.Email,
			Password:          hashed,
			Role:              models.RoleTeacher,
			Phone:             input.Phone,
			Address:           input.Address,
			Specialty:         input.Specialty,
			CommissionPercent: input.CommissionPercent,
			Salary:            input.Salary,
			Status:            "actif",
		}
		if err := r.db.Create(&m).Error; err != nil {
			return Account{}, apperr.Wrap(apperr.Internal, "échec de la création de l'enseignant", err)
		}
		acc.Teacher = &m
	case models.RoleStudent:
		m := models.Student{
			LastName:         input.LastName,
			FirstName:        input.FirstName,
			Email:            input.Email,
			Password:         hashed,
			Role:             models.RoleStudent,
			Phone:            input.Phone,
			Address:          input.Address,
			BirthDate:        input.BirthDate,
			PromotionPercent: input.PromotionPercent,
		}
		if err := r.db.Create(&m).Error; err != nil {
			return Account{}, apperr.Wrap(apperr.Internal, "échec de la création de l'étudiant", err)
		}
		acc.Student = &m
	case models.RoleOrganization:
		m := models.Organization{
			Name:             input.OrganizationName,
			Email:            input.Email,
			Password:         hashed,
			Role:             models.RoleOrganization,
			Sector:           input.Sector,
			Phone:            input.Phone,
			Address:          input.Address,
			ContactName:      input.ContactName,
			ContactEmail:     input.ContactEmail,
			PromotionPercent: input.PromotionPercent,
		}
		if err := r.db.Create(&m).Error; err != nil {
			return Account{}, apperr.Wrap(apperr.Internal, "échec de la création de l'organisation", err)
		}
		acc.Organization = &m
	default:
		return Account{}, apperr.New(apperr.Validation, "Rôle invalide")
	}
	return acc, nil
}

// RegisterAdmin creates an admin account. Kept as a separate entry point:
// the duplicate check here only consults the admin table.
func (r *Resolver) RegisterAdmin(lastName, firstName, email, password string) (Account, error) {
	var count int64
	if err := r.db.Model(&models.Admin{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return Account{}, apperr.Wrap(apperr.Internal, "échec de la vérification de l'email", err)
	}
	if count > 0 {
		return Account{}, apperr.New(apperr.Validation, "Un administrateur avec cet email existe déjà")
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return Account{}, err
	}
	m := models.Admin{
		LastName:  lastName,
		FirstName: firstName,
		Email:     email,
		Password:  hashed,
		Role:      models.RoleAdmin,
	}
	if err := r.db.Create(&m).Error; err != nil {
		return Account{}, apperr.Wrap(apperr.Internal, "échec de la création de l'administrateur", err)
	}
	return Account{Role: models.RoleAdmin, Admin: &m}, nil
}

// Login probes the four tables in a fixed order (admin, teacher, student,
// organization) and compares the secret only against the first email match.
// If two tables ever share an email — an integrity violation registration is
// supposed to prevent — the earlier table wins. That precedence is a
// documented rule, not a race.
func (r *Resolver) Login(email, password string) (Account, error) {
	var admin models.Admin
	err := r.db.Where("email = ?", email).First(&admin).Error
	if err == nil {
		return checkPassword(Account{Role: models.RoleAdmin, Admin: &admin}, admin.Password, password)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, apperr.Wrap(apperr.Internal, "échec de la recherche du compte", err)
	}

	var teacher models.Teacher
	err = r.db.Where("email = ?", email).First(&teacher).Error
	if err == nil {
		return checkPassword(Account{Role: models.RoleTeacher, Teacher: &teacher}, teacher.Password, password)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, apperr.Wrap(apperr.Internal, "échec de la recherche du compte", err)
	}

	var student models.Student
	err = r.db.Where("email = ?", email).First(&student).Error
	if err == nil {
		return checkPassword(Account{Role: models.RoleStudent, Student: &student}, student.Password, password)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, apperr.Wrap(apperr.Internal, "échec de la recherche du compte", err)
	}

	var org models.Organization
	err = r.db.Where("email = ?", email).First(&org).Error
	if err == nil {
		return checkPassword(Account{Role: models.RoleOrganization, Organization: &org}, org.Password, password)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, apperr.Wrap(apperr.Internal, "échec de la recherche du compte", err)
	}

	return Account{}, errInvalidCredentials
}

func (r *Resolver) emailTaken(email string) (bool, error) {
	// No shared index exists across the four tables; all of them are checked.
	for _, model := range []any{&models.Admin{}, &models.Teacher{}, &models.Student{}, &models.Organization{}} {
		var count int64
		if err := r.db.Model(model).Where("email = ?", email).Count(&count).Error; err != nil {
			return false, apperr.Wrap(apperr.Internal, "échec de la vérification de l'email", err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func checkPassword(acc Account, hashed, password string) (Account, error) {
	if bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) != nil {
		return Account{}, errInvalidCredentials
	}
	return acc, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "échec du hachage du mot de passe", err)
	}
	return string(hashed), nil
}
