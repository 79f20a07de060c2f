package service

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/lookup"
	"clientschedule/cmd/internal/scheduling"
	"clientschedule/cmd/internal/utils"
	"clientschedule/cmd/internal/utils/apierror"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/gommon/log"
)

const defaultActor = "api"

type AppointmentRepository interface {
	FindByID(ctx context.Context, id int) (*entity.Appointment, error)
	FindAll(ctx context.Context) ([]*entity.Appointment, error)
	FindByContactID(ctx context.Context, contactID int) ([]*entity.Appointment, error)
	FindStartingWithin(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error)
	FindStartingWithinForUser(ctx context.Context, from, to time.Time, userID int) ([]*entity.Appointment, error)
	Save(ctx context.Context, appointment *entity.Appointment) error
	Delete(ctx context.Context, appointment *entity.Appointment) error
}

type AppointmentValidator interface {
	Validate(ctx context.Context, candidate scheduling.Candidate, selfID *int) scheduling.Verdict
}

type AppointmentRequest = scheduling.Candidate

type AppointmentResponse struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	Type          string `json:"type"`
	ContactID     int    `json:"contact_id"`
	ContactName   string `json:"contact_name,omitempty"`
	CustomerID    int    `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	UserID        int    `json:"user_id"`
	UserUsername  string `json:"user_username,omitempty"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	StartsAtLocal string `json:"starts_at_local"`
	EndsAtLocal   string `json:"ends_at_local"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	CreatedBy     string `json:"created_by"`
	UpdatedBy     string `json:"updated_by"`

	// ConflictCheckDegraded is set when the appointment was stored without a
	// successful conflict lookup.
	ConflictCheckDegraded bool `json:"conflict_check_degraded,omitempty"`
}

// Related groups the resolvers used to name the records an appointment references.
type Related struct {
	Contacts  *lookup.Resolver[entity.Contact]
	Customers *lookup.Resolver[entity.Customer]
	Users     *lookup.Resolver[entity.User]
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	Validator       AppointmentValidator
	Related         Related
	Zone            *time.Location
	OfficeOpen      string
	OfficeClose     string
	Now             func() time.Time
}

func NewAppointmentService(apptRepo AppointmentRepository, validator AppointmentValidator, related Related, zone *time.Location, officeOpen, officeClose string) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		AppointmentRepo: apptRepo,
		Validator:       validator,
		Related:         related,
		Zone:            zone,
		OfficeOpen:      officeOpen,
		OfficeClose:     officeClose,
		Now:             time.Now,
	}
}

// GetAppointments lists all appointments, or those starting within the next
// week or month.
func (a *DefaultAppointmentService) GetAppointments(ctx context.Context, timeframe string) ([]*AppointmentResponse, apierror.ErrorResponse) {
	now := a.Now().UTC()

	var appts []*entity.Appointment
	var err error
	switch timeframe {
	case "", "all":
		appts, err = a.AppointmentRepo.FindAll(ctx)
	case "week":
		appts, err = a.AppointmentRepo.FindStartingWithin(ctx, now, now.AddDate(0, 0, 7))
	case "month":
		appts, err = a.AppointmentRepo.FindStartingWithin(ctx, now, now.AddDate(0, 1, 0))
	default:
		return nil, apierror.NewSimple(http.StatusBadRequest, "range must be one of all, week or month")
	}

	if err != nil {
		log.Errorf("failed to find appointments (range %q): %v", timeframe, err)
		return nil, apierror.InternalServerError
	}
	return a.toResponses(ctx, appts), nil
}

func (a *DefaultAppointmentService) GetAppointment(ctx context.Context, id int) (*AppointmentResponse, apierror.ErrorResponse) {
	appt, err := a.AppointmentRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appt == nil {
		return nil, apierror.NotFoundError
	}
	return a.toAppointmentResponse(ctx, appt), nil
}

func (a *DefaultAppointmentService) GetContactAppointments(ctx context.Context, contactID int) ([]*AppointmentResponse, apierror.ErrorResponse) {
	_, found, err := a.Related.Contacts.Resolve(ctx, contactID)
	if err != nil {
		log.Errorf("failed to resolve contact %d: %v", contactID, err)
		return nil, apierror.InternalServerError
	}
	if !found {
		return nil, apierror.NotFoundError
	}

	appts, err := a.AppointmentRepo.FindByContactID(ctx, contactID)
	if err != nil {
		log.Errorf("failed to find appointments for contact %d: %v", contactID, err)
		return nil, apierror.InternalServerError
	}
	return a.toResponses(ctx, appts), nil
}

// UpcomingForUser lists the user's appointments starting within window from now.
func (a *DefaultAppointmentService) UpcomingForUser(ctx context.Context, userID int, window time.Duration) ([]*AppointmentResponse, apierror.ErrorResponse) {
	now := a.Now().UTC()
	appts, err := a.AppointmentRepo.FindStartingWithinForUser(ctx, now, now.Add(window), userID)
	if err != nil {
		log.Errorf("failed to find upcoming appointments for user %d: %v", userID, err)
		return nil, apierror.InternalServerError
	}
	return a.toResponses(ctx, appts), nil
}

func (a *DefaultAppointmentService) CreateAppointment(ctx context.Context, req *AppointmentRequest, actor string) (*AppointmentResponse, apierror.ErrorResponse) {
	verdict := a.Validator.Validate(ctx, *req, nil)
	if !verdict.Accepted() {
		return nil, a.rejectionError(verdict.Rejection)
	}

	if apierr := a.checkReferences(ctx, req); apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	appointment := &entity.Appointment{
		CreatedAt: now,
		CreatedBy: actorOrDefault(actor),
	}
	applyCandidate(appointment, req, verdict, now, actor)

	err := a.AppointmentRepo.Save(ctx, appointment)
	if err != nil {
		log.Errorf("failed to save appointment: %v", err)
		return nil, apierror.InternalServerError
	}

	if verdict.Degraded {
		log.Warnf("appointment %d stored without a conflict check", appointment.ID)
	}
	resp := a.toAppointmentResponse(ctx, appointment)
	resp.ConflictCheckDegraded = verdict.Degraded
	return resp, nil
}

func (a *DefaultAppointmentService) UpdateAppointment(ctx context.Context, id int, req *AppointmentRequest, actor string) (*AppointmentResponse, apierror.ErrorResponse) {
	existing, err := a.AppointmentRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if existing == nil {
		return nil, apierror.NotFoundError
	}

	verdict := a.Validator.Validate(ctx, *req, &existing.ID)
	if !verdict.Accepted() {
		return nil, a.rejectionError(verdict.Rejection)
	}

	if apierr := a.checkReferences(ctx, req); apierr != nil {
		return nil, apierr
	}

	applyCandidate(existing, req, verdict, utils.NowUTC(), actor)
	err = a.AppointmentRepo.Save(ctx, existing)
	if err != nil {
		log.Errorf("failed to update appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	resp := a.toAppointmentResponse(ctx, existing)
	resp.ConflictCheckDegraded = verdict.Degraded
	return resp, nil
}

func (a *DefaultAppointmentService) DeleteAppointment(ctx context.Context, id int) apierror.ErrorResponse {
	appt, err := a.AppointmentRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %d: %v", id, err)
		return apierror.InternalServerError
	}
	if appt == nil {
		return apierror.NotFoundError
	}

	err = a.AppointmentRepo.Delete(ctx, appt)
	if err != nil {
		log.Errorf("failed to delete appointment by id %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

// checkReferences makes sure the selected contact, customer and user exist.
func (a *DefaultAppointmentService) checkReferences(ctx context.Context, req *AppointmentRequest) apierror.ErrorResponse {
	_, found, err := a.Related.Contacts.Resolve(ctx, *req.ContactID)
	if apierr := referenceError("contact", found, err); apierr != nil {
		return apierr
	}
	_, found, err = a.Related.Customers.Resolve(ctx, *req.CustomerID)
	if apierr := referenceError("customer", found, err); apierr != nil {
		return apierr
	}
	_, found, err = a.Related.Users.Resolve(ctx, *req.UserID)
	return referenceError("user", found, err)
}

func referenceError(name string, found bool, err error) apierror.ErrorResponse {
	if err != nil {
		log.Errorf("failed to resolve %s: %v", name, err)
		return apierror.InternalServerError
	}
	if !found {
		return apierror.NewSimple(http.StatusUnprocessableEntity, fmt.Sprintf("The selected %s does not exist", name))
	}
	return nil
}

func (a *DefaultAppointmentService) rejectionError(rejection *scheduling.Rejection) apierror.ErrorResponse {
	switch rejection.Reason {
	case scheduling.FieldBlank:
		return apierror.FieldBlankError
	case scheduling.TimeFormatInvalid:
		return apierror.NewTimeFormatError(rejection.Cause)
	case scheduling.EndBeforeStart:
		return apierror.EndBeforeStartError
	case scheduling.OutsideOfficeHours:
		return apierror.NewOutsideOfficeHoursError(a.OfficeOpen, a.OfficeClose)
	case scheduling.ConflictingAppointments:
		conflicts := make([]string, len(rejection.Conflicts))
		for i, appt := range rejection.Conflicts {
			conflicts[i] = a.prettyAppointment(appt)
		}
		return apierror.NewConflictingAppointmentsError(conflicts)
	default:
		log.Errorf("unknown rejection reason %q", rejection.Reason)
		return apierror.InternalServerError
	}
}

func (a *DefaultAppointmentService) prettyAppointment(appt *entity.Appointment) string {
	return fmt.Sprintf("Id: %d, Title: %q, Starts at: %s", appt.ID, appt.Title, utils.FormatLocal(appt.StartsAt, a.Zone))
}

func (a *DefaultAppointmentService) toResponses(ctx context.Context, appts []*entity.Appointment) []*AppointmentResponse {
	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = a.toAppointmentResponse(ctx, appt)
	}
	return response
}

func (a *DefaultAppointmentService) toAppointmentResponse(ctx context.Context, appt *entity.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:            appt.ID,
		Title:         appt.Title,
		Description:   appt.Description,
		Location:      appt.Location,
		Type:          appt.Type,
		ContactID:     appt.ContactID,
		CustomerID:    appt.CustomerID,
		UserID:        appt.UserID,
		StartsAt:      utils.FormatEpoch(appt.StartsAt),
		EndsAt:        utils.FormatEpoch(appt.EndsAt),
		StartsAtLocal: utils.FormatLocal(appt.StartsAt, a.Zone),
		EndsAtLocal:   utils.FormatLocal(appt.EndsAt, a.Zone),
		CreatedAt:     utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt:     utils.FormatEpoch(appt.UpdatedAt),
		CreatedBy:     appt.CreatedBy,
		UpdatedBy:     appt.UpdatedBy,
	}

	// Names are best effort; a dangling reference leaves them empty.
	if contact, ok, err := a.Related.Contacts.Resolve(ctx, appt.ContactID); err == nil && ok {
		resp.ContactName = contact.Name
	}
	if customer, ok, err := a.Related.Customers.Resolve(ctx, appt.CustomerID); err == nil && ok {
		resp.CustomerName = customer.Name
	}
	if user, ok, err := a.Related.Users.Resolve(ctx, appt.UserID); err == nil && ok {
		resp.UserUsername = user.Username
	}
	return resp
}

func applyCandidate(appt *entity.Appointment, req *AppointmentRequest, verdict scheduling.Verdict, now int64, actor string) {
	clean := *req
	utils.Sanitize(&clean)

	appt.ContactID = *clean.ContactID
	appt.CustomerID = *clean.CustomerID
	appt.UserID = *clean.UserID
	appt.Title = clean.Title
	appt.Description = clean.Description
	appt.Location = clean.Location
	appt.Type = clean.Type
	appt.StartsAt = utils.ToMillis(verdict.StartsAt)
	appt.EndsAt = utils.ToMillis(verdict.EndsAt)
	appt.UpdatedAt = now
	appt.UpdatedBy = actorOrDefault(actor)
}

func actorOrDefault(actor string) string {
	if actor == "" {
		return defaultActor
	}
	return actor
}
