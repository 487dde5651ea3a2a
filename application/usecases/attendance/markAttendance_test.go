package attendance_usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"vericlass.io/application/constants"
	"vericlass.io/application/eligibility"
	"vericlass.io/entities"
)

type fakeRecords struct {
	mu        sync.Mutex
	seen      map[string]bool
	countErr  error
	preloaded int64
	created   []entities.AttendanceRecord
}

func (f *fakeRecords) CountDocs(ctx context.Context, filter map[string]interface{}) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%v-%v", filter["studentID"], filter["enrollmentID"])
	if f.seen[key] {
		return 1, nil
	}
	return f.preloaded, nil
}

func (f *fakeRecords) CreateOne(ctx context.Context, record entities.AttendanceRecord) (*entities.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s-%s", record.StudentID, record.EnrollmentID)
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[key] {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	f.seen[key] = true
	f.created = append(f.created, record)
	return &record, nil
}

type fakeZones struct {
	zones map[string]*entities.CampusLocation
}

func (f *fakeZones) FindZone(ctx context.Context, faculty string, name string) (*entities.CampusLocation, error) {
	return f.zones[faculty+"/"+name], nil
}

type fakeSessions struct {
	sessions map[string]*entities.ClassSession
}

func (f *fakeSessions) FindSession(ctx context.Context, enrollmentID string) (*entities.ClassSession, error) {
	return f.sessions[enrollmentID], nil
}

type fakeLocks struct {
	mu     sync.Mutex
	held   map[string]bool
	refuse bool
}

func (f *fakeLocks) AcquireLock(key string, ttl time.Duration) bool {
	if f.refuse {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held == nil {
		f.held = map[string]bool{}
	}
	if f.held[key] {
		return false
	}
	f.held[key] = true
	return true
}

func (f *fakeLocks) ReleaseLock(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, key)
}

func ticketPayload() string {
	return "FACULTY:Engineering;COURSE:CSC401;SECTION:A;TIME:09:00 - 11:00;ENROLLMENT_ID:enr_01;LOCATION_NAME:Main Hall"
}

func testStudent() entities.Student {
	return entities.Student{
		MatricNumber: "ENG/19/1234",
		FullName:     "Ada Obi",
		ID:           "stu_01",
	}
}

func testPipeline(records *fakeRecords, zones *fakeZones, locks *fakeLocks) *AttendancePipeline {
	return &AttendancePipeline{
		Records:  records,
		Zones:    zones,
		Sessions: &fakeSessions{},
		Locks:    locks,
		Verified: func(sessionID string, studentID string) bool { return sessionID == "ver_ok" },
		Clock: func() time.Time {
			return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		},
		Grace:   15 * time.Minute,
		LockTTL: 10 * time.Second,
	}
}

func mainHallZones() *fakeZones {
	return &fakeZones{zones: map[string]*entities.CampusLocation{
		"Engineering/Main Hall": {
			Faculty:      "Engineering",
			Name:         "Main Hall",
			Latitude:     6.5244,
			Longitude:    3.3792,
			RadiusMeters: 100,
		},
	}}
}

func insideMainHall() *eligibility.GeoPoint {
	return &eligibility.GeoPoint{Latitude: 6.5244, Longitude: 3.3792}
}

func TestMarkAttendance(t *testing.T) {
	t.Run("records attendance when every gate passes", func(t *testing.T) {
		records := &fakeRecords{}
		pipeline := testPipeline(records, mainHallZones(), &fakeLocks{})

		created, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection != nil {
			t.Fatalf("unexpected rejection: %+v", rejection)
		}
		if created == nil {
			t.Fatal("expected a created record")
		}
		if created.EnrollmentID != "enr_01" {
			t.Errorf("expected enrollmentID enr_01, got %s", created.EnrollmentID)
		}
		if created.Status != constants.ATTENDANCE_STATUS_PRESENT {
			t.Errorf("expected status %s, got %s", constants.ATTENDANCE_STATUS_PRESENT, created.Status)
		}
		if created.StudentName != "Ada Obi" {
			t.Errorf("expected student name carried onto the record, got %s", created.StudentName)
		}
		want := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		if !created.RecordedAt.Equal(want) {
			t.Errorf("expected RecordedAt from the pipeline clock, got %v", created.RecordedAt)
		}
	})

	t.Run("fires the recorded hook", func(t *testing.T) {
		records := &fakeRecords{}
		pipeline := testPipeline(records, mainHallZones(), &fakeLocks{})
		var hooked *entities.AttendanceRecord
		pipeline.OnRecorded = func(record entities.AttendanceRecord) {
			hooked = &record
		}

		_, _, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hooked == nil || hooked.EnrollmentID != "enr_01" {
			t.Fatalf("expected hook to receive the created record, got %+v", hooked)
		}
	})

	t.Run("rejects a malformed ticket", func(t *testing.T) {
		pipeline := testPipeline(&fakeRecords{}, mainHallZones(), &fakeLocks{})

		created, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         "not a ticket at all",
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil || created != nil {
			t.Fatalf("expected a rejection only, got record=%v err=%v", created, err)
		}
		if rejection == nil || rejection.Kind != RejectionMalformedTicket {
			t.Fatalf("expected malformed_ticket rejection, got %+v", rejection)
		}
	})

	t.Run("rejects when face verification has not matched", func(t *testing.T) {
		records := &fakeRecords{}
		pipeline := testPipeline(records, mainHallZones(), &fakeLocks{})

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_unmatched",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionNotVerified {
			t.Fatalf("expected not_verified rejection, got %+v", rejection)
		}
		if len(records.created) != 0 {
			t.Error("no record should be written for an unverified scan")
		}
	})

	t.Run("rejects outside the time window", func(t *testing.T) {
		pipeline := testPipeline(&fakeRecords{}, mainHallZones(), &fakeLocks{})
		pipeline.Clock = func() time.Time {
			return time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
		}

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionOutsideTimeWindow {
			t.Fatalf("expected outside_time_window rejection, got %+v", rejection)
		}
	})

	t.Run("treats an unreadable schedule as a malformed ticket", func(t *testing.T) {
		pipeline := testPipeline(&fakeRecords{}, mainHallZones(), &fakeLocks{})
		payload := "FACULTY:Engineering;COURSE:CSC401;SECTION:A;TIME:25:00 - 11:00;ENROLLMENT_ID:enr_01;LOCATION_NAME:Main Hall"

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         payload,
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionMalformedTicket {
			t.Fatalf("expected malformed_ticket rejection, got %+v", rejection)
		}
	})

	t.Run("rejects a device outside the geofence", func(t *testing.T) {
		pipeline := testPipeline(&fakeRecords{}, mainHallZones(), &fakeLocks{})

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              &eligibility.GeoPoint{Latitude: 6.6000, Longitude: 3.3792},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionOutsideGeofence {
			t.Fatalf("expected outside_geofence rejection, got %+v", rejection)
		}
	})

	t.Run("honors the grace configured on the class session", func(t *testing.T) {
		records := &fakeRecords{}
		pipeline := testPipeline(records, mainHallZones(), &fakeLocks{})
		pipeline.Sessions = &fakeSessions{sessions: map[string]*entities.ClassSession{
			"enr_01": {EnrollmentID: "enr_01", GraceMinutes: 30},
		}}
		// 11:25 is past the default 15 minute grace but inside 30
		pipeline.Clock = func() time.Time {
			return time.Date(2026, 3, 2, 11, 25, 0, 0, time.UTC)
		}

		created, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection != nil {
			t.Fatalf("expected the session grace to admit the scan, got %+v", rejection)
		}
		if created == nil {
			t.Fatal("expected a created record")
		}
	})

	t.Run("falls back to the default grace for an unknown session", func(t *testing.T) {
		pipeline := testPipeline(&fakeRecords{}, mainHallZones(), &fakeLocks{})
		pipeline.Clock = func() time.Time {
			return time.Date(2026, 3, 2, 11, 25, 0, 0, time.UTC)
		}

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionOutsideTimeWindow {
			t.Fatalf("expected outside_time_window rejection, got %+v", rejection)
		}
	})

	t.Run("zone lookup is scoped to the ticket's faculty", func(t *testing.T) {
		zones := &fakeZones{zones: map[string]*entities.CampusLocation{
			"Science/Main Hall": {
				Faculty:      "Science",
				Name:         "Main Hall",
				Latitude:     6.5244,
				Longitude:    3.3792,
				RadiusMeters: 100,
			},
		}}
		pipeline := testPipeline(&fakeRecords{}, zones, &fakeLocks{})

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionLocationUnavailable {
			t.Fatalf("expected location_unavailable for another faculty's hall, got %+v", rejection)
		}
	})

	t.Run("rejects when the campus location is not registered", func(t *testing.T) {
		pipeline := testPipeline(&fakeRecords{}, &fakeZones{}, &fakeLocks{})

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionLocationUnavailable {
			t.Fatalf("expected location_unavailable rejection, got %+v", rejection)
		}
	})

	t.Run("rejects when the device sends no location", func(t *testing.T) {
		pipeline := testPipeline(&fakeRecords{}, mainHallZones(), &fakeLocks{})

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionLocationUnavailable {
			t.Fatalf("expected location_unavailable rejection, got %+v", rejection)
		}
	})

	t.Run("rejects a zone with no usable radius", func(t *testing.T) {
		zones := &fakeZones{zones: map[string]*entities.CampusLocation{
			"Engineering/Main Hall": {Faculty: "Engineering", Name: "Main Hall", Latitude: 6.5244, Longitude: 3.3792},
		}}
		pipeline := testPipeline(&fakeRecords{}, zones, &fakeLocks{})

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionLocationUnavailable {
			t.Fatalf("expected location_unavailable rejection, got %+v", rejection)
		}
	})

	t.Run("rejects a duplicate scan", func(t *testing.T) {
		records := &fakeRecords{preloaded: 1}
		pipeline := testPipeline(records, mainHallZones(), &fakeLocks{})

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionAlreadyRecorded {
			t.Fatalf("expected already_recorded rejection, got %+v", rejection)
		}
	})

	t.Run("maps a duplicate key write to already_recorded", func(t *testing.T) {
		records := &fakeRecords{seen: map[string]bool{"stu_01-enr_01": true}}
		pipeline := testPipeline(records, mainHallZones(), &fakeLocks{})

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionAlreadyRecorded {
			t.Fatalf("expected already_recorded rejection, got %+v", rejection)
		}
	})

	t.Run("rejects while another scan holds the lock", func(t *testing.T) {
		pipeline := testPipeline(&fakeRecords{}, mainHallZones(), &fakeLocks{refuse: true})

		_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
			Student:               testStudent(),
			TicketPayload:         ticketPayload(),
			VerificationSessionID: "ver_ok",
			Location:              insideMainHall(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rejection == nil || rejection.Kind != RejectionInProgress {
			t.Fatalf("expected in_progress rejection, got %+v", rejection)
		}
	})

	t.Run("two racing scans produce exactly one record", func(t *testing.T) {
		records := &fakeRecords{}
		pipeline := testPipeline(records, mainHallZones(), &fakeLocks{})

		var wg sync.WaitGroup
		results := make(chan *Rejection, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, rejection, err := pipeline.Mark(context.Background(), MarkAttendanceInput{
					Student:               testStudent(),
					TicketPayload:         ticketPayload(),
					VerificationSessionID: "ver_ok",
					Location:              insideMainHall(),
				})
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				results <- rejection
			}()
		}
		wg.Wait()
		close(results)

		if len(records.created) != 1 {
			t.Fatalf("expected exactly one record, got %d", len(records.created))
		}
		rejected := 0
		for rejection := range results {
			if rejection != nil {
				rejected++
				if rejection.Kind != RejectionAlreadyRecorded && rejection.Kind != RejectionInProgress {
					t.Errorf("unexpected rejection kind %s", rejection.Kind)
				}
			}
		}
		if rejected != 1 {
			t.Fatalf("expected exactly one rejected scan, got %d", rejected)
		}
	})
}
