package service

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/utils/apierror"
	"context"

	"github.com/labstack/gommon/log"
)

type ContactRepository interface {
	FindAll(ctx context.Context) ([]*entity.Contact, error)
}

type DivisionRepository interface {
	FindByCountryID(ctx context.Context, countryID int) ([]*entity.Division, error)
	FindAllCountries(ctx context.Context) ([]*entity.Country, error)
}

type ContactResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CountryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type DivisionResponse struct {
	ID        int    `json:"id"`
	CountryID int    `json:"country_id"`
	Name      string `json:"name"`
}

// DefaultDirectoryService serves the read-only reference data the forms pick
// from: contacts, countries and first-level divisions.
type DefaultDirectoryService struct {
	ContactRepo  ContactRepository
	DivisionRepo DivisionRepository
}

func NewDirectoryService(contactRepo ContactRepository, divisionRepo DivisionRepository) *DefaultDirectoryService {
	return &DefaultDirectoryService{ContactRepo: contactRepo, DivisionRepo: divisionRepo}
}

func (d *DefaultDirectoryService) GetContacts(ctx context.Context) ([]*ContactResponse, apierror.ErrorResponse) {
	contacts, err := d.ContactRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch all contacts: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*ContactResponse, len(contacts))
	for i, contact := range contacts {
		resp[i] = &ContactResponse{ID: contact.ID, Name: contact.Name, Email: contact.Email}
	}
	return resp, nil
}

func (d *DefaultDirectoryService) GetCountries(ctx context.Context) ([]*CountryResponse, apierror.ErrorResponse) {
	countries, err := d.DivisionRepo.FindAllCountries(ctx)
	if err != nil {
		log.Errorf("failed to fetch all countries: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*CountryResponse, len(countries))
	for i, country := range countries {
		resp[i] = &CountryResponse{ID: country.ID, Name: country.Name}
	}
	return resp, nil
}

func (d *DefaultDirectoryService) GetDivisions(ctx context.Context, countryID int) ([]*DivisionResponse, apierror.ErrorResponse) {
	divisions, err := d.DivisionRepo.FindByCountryID(ctx, countryID)
	if err != nil {
		log.Errorf("failed to fetch divisions for country %d: %v", countryID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*DivisionResponse, len(divisions))
	for i, division := range divisions {
		resp[i] = &DivisionResponse{ID: division.ID, CountryID: division.CountryID, Name: division.Name}
	}
	return resp, nil
}
