package registration_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	companystore "github.com/dealroom-et/dealroom/internal/app/store/companies"
	"github.com/dealroom-et/dealroom/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeCompanies struct {
	mu      sync.Mutex
	byName  map[string]models.Company
	failErr error
	// raceWith is inserted by the first Create call to simulate a concurrent winner.
	raceWith *models.Company
}

func newFakeCompanies() *fakeCompanies {
	return &fakeCompanies{byName: map[string]models.Company{}}
}

func (f *fakeCompanies) GetByName(_ context.Context, name string) (models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byName[name]
	if !ok {
		return models.Company{}, mongo.ErrNoDocuments
	}
	return c, nil
}

func (f *fakeCompanies) Create(_ context.Context, c models.Company) (models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return models.Company{}, f.failErr
	}
	if f.raceWith != nil {
		f.byName[f.raceWith.Name] = *f.raceWith
		f.raceWith = nil
	}
	if _, ok := f.byName[c.Name]; ok {
		return models.Company{}, companystore.ErrDuplicateName
	}
	c.ID = primitive.NewObjectID()
	c.Slug = strings.ToLower(strings.ReplaceAll(c.Name, " ", "-"))
	f.byName[c.Name] = c
	return c, nil
}

func (f *fakeCompanies) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byName)
}

type fakeIndustries struct {
	mu     sync.Mutex
	byName map[string]models.Industry
}

func newFakeIndustries(existing ...string) *fakeIndustries {
	f := &fakeIndustries{byName: map[string]models.Industry{}}
	for _, n := range existing {
		f.byName[n] = models.Industry{ID: primitive.NewObjectID(), Name: n, ModerationStatus: models.ModerationAccepted}
	}
	return f
}

func (f *fakeIndustries) FindOrCreateByName(_ context.Context, name string) (models.Industry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ind, ok := f.byName[name]; ok {
		return ind, false, nil
	}
	ind := models.Industry{
		ID:               primitive.NewObjectID(),
		Name:             name,
		Description:      name + " industry",
		ModerationStatus: models.ModerationPending,
	}
	f.byName[name] = ind
	return ind, true, nil
}

type fakePeople struct {
	mu      sync.Mutex
	byEmail map[string]models.Person
}

func newFakePeople() *fakePeople { return &fakePeople{byEmail: map[string]models.Person{}} }

func (f *fakePeople) FindOrCreateByEmail(_ context.Context, email string, proto models.Person) (models.Person, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(email)
	if p, ok := f.byEmail[key]; ok {
		return p, false, nil
	}
	proto.ID = primitive.NewObjectID()
	proto.Email = &key
	f.byEmail[key] = proto
	return proto, true, nil
}

type fakeRegistrations struct {
	mu       sync.Mutex
	byID     map[primitive.ObjectID]models.OrganizationRegistration
	setFails bool
}

func newFakeRegistrations() *fakeRegistrations {
	return &fakeRegistrations{byID: map[primitive.ObjectID]models.OrganizationRegistration{}}
}

func (f *fakeRegistrations) GetByID(_ context.Context, id primitive.ObjectID) (models.OrganizationRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return r, mongo.ErrNoDocuments
	}
	return r, nil
}

func (f *fakeRegistrations) Create(_ context.Context, r models.OrganizationRegistration) (models.OrganizationRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = primitive.NewObjectID()
	r.Status = models.RegistrationPending
	f.byID[r.ID] = r
	return r, nil
}

func (f *fakeRegistrations) SetReview(_ context.Context, id primitive.ObjectID, status models.RegistrationStatus, reviewer string, notes *string) (models.OrganizationRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setFails {
		return models.OrganizationRegistration{}, errors.New("write failed")
	}
	r, ok := f.byID[id]
	if !ok {
		return r, mongo.ErrNoDocuments
	}
	now := time.Now()
	r.Status = status
	r.ReviewedBy = reviewer
	r.ReviewedAt = &now
	if notes != nil {
		r.AdminNotes = *notes
	}
	f.byID[id] = r
	return r, nil
}

func (f *fakeRegistrations) SetAdminNotes(_ context.Context, id primitive.ObjectID, notes string) (models.OrganizationRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byID[id]
	if !ok {
		return r, mongo.ErrNoDocuments
	}
	r.AdminNotes = notes
	f.byID[id] = r
	return r, nil
}
