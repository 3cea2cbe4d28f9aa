// Package servicetest provides in-memory repositories and request contexts for service tests.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/announcement"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const Secret = "test-secret"

func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ContextFor returns a context carrying a verified access token for u.
func ContextFor(t *testing.T, u user.User) context.Context {
	t.Helper()

	svc := jwt.NewJWTService(Secret, time.Hour)
	raw, _, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	token, err := svc.JWTAuth().Decode(raw)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// Tx runs fn directly.
type Tx struct{}

func (Tx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// ===== USERS =====

type UserRepo struct {
	mu    sync.Mutex
	Users map[string]user.User
}

func NewUserRepo(users ...user.User) *UserRepo {
	r := &UserRepo{Users: make(map[string]user.User)}
	for _, u := range users {
		r.Users[u.ID] = u
	}
	return r
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.Email == newUser.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	if newUser.ID == "" {
		newUser.ID = NewID()
	}
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	r.Users[newUser.ID] = newUser
	return newUser, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *UserRepo) Update(ctx context.Context, updated user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.Users[updated.ID]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	for _, u := range r.Users {
		if u.ID != updated.ID && u.Email == updated.Email {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	updated.Role = existing.Role
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	r.Users[updated.ID] = updated
	return updated, nil
}

func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]user.User, 0, len(r.Users))
	for _, u := range r.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// ===== ATTENDANCE =====

type AttendanceRepo struct {
	mu      sync.Mutex
	Users   *UserRepo
	Records map[string]attendance.Attendance
}

func NewAttendanceRepo(users *UserRepo) *AttendanceRepo {
	return &AttendanceRepo{Users: users, Records: make(map[string]attendance.Attendance)}
}

func (r *AttendanceRepo) withUser(a attendance.Attendance) attendance.Attendance {
	if r.Users == nil {
		return a
	}
	if u, err := r.Users.GetByID(context.Background(), a.UserID); err == nil {
		name, email := u.Name, u.Email
		a.UserName, a.UserEmail = &name, &email
	}
	return a
}

func (r *AttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Records {
		if existing.UserID == a.UserID && sameDay(existing.Date, a.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	if a.ID == "" {
		a.ID = NewID()
	}
	a.Status = a.RecordStatus()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.Records[a.ID] = a
	return a, nil
}

func (r *AttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.Records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.withUser(a), nil
}

func (r *AttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.Records {
		if a.UserID == userID && sameDay(a.Date, date) {
			found := r.withUser(a)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *AttendanceRepo) Update(ctx context.Context, a attendance.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Records[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	a.Status = a.RecordStatus()
	a.UpdatedAt = time.Now()
	r.Records[a.ID] = a
	return nil
}

func (r *AttendanceRepo) sorted(keep func(attendance.Attendance) bool, newestFirst bool) []attendance.Attendance {
	records := make([]attendance.Attendance, 0)
	for _, a := range r.Records {
		if keep(a) {
			records = append(records, r.withUser(a))
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if newestFirst {
			return records[i].CheckIn.After(records[j].CheckIn)
		}
		return records[i].CheckIn.Before(records[j].CheckIn)
	})
	return records
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func (r *AttendanceRepo) ListByUser(ctx context.Context, userID string, n int) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return limit(r.sorted(func(a attendance.Attendance) bool { return a.UserID == userID }, true), n), nil
}

func (r *AttendanceRepo) ListByDate(ctx context.Context, date time.Time, openOnly bool) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(a attendance.Attendance) bool {
		return sameDay(a.Date, date) && (!openOnly || a.CheckOut == nil)
	}, false), nil
}

func (r *AttendanceRepo) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return limit(r.sorted(func(a attendance.Attendance) bool {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			return false
		}
		if filter.From != nil && a.Date.Before(*filter.From) {
			return false
		}
		if filter.To != nil && a.Date.After(*filter.To) {
			return false
		}
		return true
	}, true), filter.Limit), nil
}

func (r *AttendanceRepo) CountDaysPresent(ctx context.Context, from, to time.Time) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, a := range r.Records {
		if !a.Date.Before(from) && !a.Date.After(to) {
			counts[a.UserID]++
		}
	}
	return counts, nil
}

// ===== LEAVE =====

type LeaveRepo struct {
	mu     sync.Mutex
	Users  *UserRepo
	Leaves map[string]leave.Leave
}

func NewLeaveRepo(users *UserRepo) *LeaveRepo {
	return &LeaveRepo{Users: users, Leaves: make(map[string]leave.Leave)}
}

func (r *LeaveRepo) withUser(l leave.Leave) leave.Leave {
	if r.Users == nil {
		return l
	}
	if u, err := r.Users.GetByID(context.Background(), l.UserID); err == nil {
		name, email := u.Name, u.Email
		l.UserName, l.UserEmail = &name, &email
	}
	return l
}

func (r *LeaveRepo) filter(keep func(leave.Leave) bool) []leave.Leave {
	leaves := make([]leave.Leave, 0)
	for _, l := range r.Leaves {
		if keep(l) {
			leaves = append(leaves, r.withUser(l))
		}
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].CreatedAt.After(leaves[j].CreatedAt) })
	return leaves
}

func (r *LeaveRepo) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == "" {
		l.ID = NewID()
	}
	if l.Status == "" {
		l.Status = leave.StatusPending
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	l.UpdatedAt = l.CreatedAt
	r.Leaves[l.ID] = l
	return l, nil
}

func (r *LeaveRepo) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.Leaves[id]
	if !ok {
		return leave.Leave{}, leave.ErrLeaveRequestNotFound
	}
	return r.withUser(l), nil
}

func (r *LeaveRepo) ListByUser(ctx context.Context, userID string, n int) ([]leave.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return limit(r.filter(func(l leave.Leave) bool { return l.UserID == userID }), n), nil
}

func (r *LeaveRepo) List(ctx context.Context, status *leave.Status, n int) ([]leave.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return limit(r.filter(func(l leave.Leave) bool { return status == nil || l.Status == *status }), n), nil
}

func (r *LeaveRepo) UpdateReview(ctx context.Context, l leave.Leave) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.Leaves[l.ID]
	if !ok || existing.Status != leave.StatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}
	existing.Status = l.Status
	existing.ReviewedBy = l.ReviewedBy
	existing.ReviewedAt = l.ReviewedAt
	existing.AdminNote = l.AdminNote
	r.Leaves[l.ID] = existing
	return nil
}

func (r *LeaveRepo) ListApprovedOverlapping(ctx context.Context, userID *string, from, to time.Time) ([]leave.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(l leave.Leave) bool {
		if l.Status != leave.StatusApproved || (userID != nil && l.UserID != *userID) {
			return false
		}
		return !l.StartDate.After(to) && !l.EndDate.Before(from)
	}), nil
}

func (r *LeaveRepo) CountPending(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filter(func(l leave.Leave) bool { return l.UserID == userID && l.IsPending() })), nil
}

// ===== HOLIDAYS =====

type HolidayRepo struct {
	mu       sync.Mutex
	Holidays map[string]holiday.Holiday
}

func NewHolidayRepo() *HolidayRepo {
	return &HolidayRepo{Holidays: make(map[string]holiday.Holiday)}
}

func (r *HolidayRepo) byDate(keep func(holiday.Holiday) bool) []holiday.Holiday {
	holidays := make([]holiday.Holiday, 0)
	for _, h := range r.Holidays {
		if keep(h) {
			holidays = append(holidays, h)
		}
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	return holidays
}

func (r *HolidayRepo) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == "" {
		h.ID = NewID()
	}
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	r.Holidays[h.ID] = h
	return h, nil
}

func (r *HolidayRepo) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.Holidays[id]
	if !ok {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	return h, nil
}

func (r *HolidayRepo) Update(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Holidays[h.ID]; !ok {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	h.UpdatedAt = time.Now()
	r.Holidays[h.ID] = h
	return h, nil
}

func (r *HolidayRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Holidays[id]; !ok {
		return holiday.ErrHolidayNotFound
	}
	delete(r.Holidays, id)
	return nil
}

func (r *HolidayRepo) List(ctx context.Context, from, to *time.Time) ([]holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byDate(func(h holiday.Holiday) bool {
		if from == nil || to == nil {
			return true
		}
		return !h.Date.Before(*from) && !h.Date.After(*to)
	}), nil
}

func (r *HolidayRepo) Upcoming(ctx context.Context, from time.Time, n int) ([]holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return limit(r.byDate(func(h holiday.Holiday) bool { return !h.Date.Before(from) }), n), nil
}

// ===== ANNOUNCEMENTS =====

type AnnouncementRepo struct {
	mu            sync.Mutex
	Users         *UserRepo
	Announcements map[string]announcement.Announcement
}

func NewAnnouncementRepo(users *UserRepo) *AnnouncementRepo {
	return &AnnouncementRepo{Users: users, Announcements: make(map[string]announcement.Announcement)}
}

func (r *AnnouncementRepo) withAuthor(a announcement.Announcement) announcement.Announcement {
	if r.Users == nil || a.CreatedBy == nil {
		return a
	}
	if u, err := r.Users.GetByID(context.Background(), *a.CreatedBy); err == nil {
		name := u.Name
		a.CreatedByName = &name
	}
	return a
}

func (r *AnnouncementRepo) Create(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = a.CreatedAt
	r.Announcements[a.ID] = a
	return a, nil
}

func (r *AnnouncementRepo) GetByID(ctx context.Context, id string) (announcement.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.Announcements[id]
	if !ok {
		return announcement.Announcement{}, announcement.ErrAnnouncementNotFound
	}
	return r.withAuthor(a), nil
}

func (r *AnnouncementRepo) Update(ctx context.Context, a announcement.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.Announcements[a.ID]
	if !ok {
		return announcement.ErrAnnouncementNotFound
	}
	existing.Title = a.Title
	existing.Content = a.Content
	existing.UpdatedAt = time.Now()
	r.Announcements[a.ID] = existing
	return nil
}

func (r *AnnouncementRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Announcements[id]; !ok {
		return announcement.ErrAnnouncementNotFound
	}
	delete(r.Announcements, id)
	return nil
}

func (r *AnnouncementRepo) ListLatest(ctx context.Context, n int) ([]announcement.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]announcement.Announcement, 0, len(r.Announcements))
	for _, a := range r.Announcements {
		list = append(list, r.withAuthor(a))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return limit(list, n), nil
}

// ===== EMAIL =====

type SentEmail struct {
	To   string
	Data email.LeaveReviewedData
}

type Mailer struct {
	mu   sync.Mutex
	Sent []SentEmail
	Err  error
}

func (m *Mailer) SendLeaveReviewed(to string, data email.LeaveReviewedData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentEmail{To: to, Data: data})
	return m.Err
}

func (m *Mailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
