package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/models"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/app/repositories"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/apperrors"
	"github.com/Team-BISHOP/Next-Step---V1-sub001/internal/pkg/search"
)

// fakeDB backs every fake repository with shared in-memory state
type fakeDB struct {
	mu           sync.Mutex
	nextID       int64
	users        map[int64]*models.User
	profiles     map[int64]*models.Profile
	courses      map[int64]*models.Course
	enrollments  map[[2]int64]*models.UserCourse
	projects     map[int64]*models.Project
	achievements map[int64][]models.Achievement
	activities   []models.Activity
	quizResults  []models.QuizResult
	subs         map[string]*models.Subscription
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:        map[int64]*models.User{},
		profiles:     map[int64]*models.Profile{},
		courses:      map[int64]*models.Course{},
		enrollments:  map[[2]int64]*models.UserCourse{},
		projects:     map[int64]*models.Project{},
		achievements: map[int64][]models.Achievement{},
		subs:         map[string]*models.Subscription{},
	}
}

func (db *fakeDB) id() int64 {
	db.nextID++
	return db.nextID
}

// seedUser stores a user with a profile and returns the user id
func (db *fakeDB) seedUser(role models.RoleType, profile models.Profile) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	id := db.id()
	db.users[id] = &models.User{
		ID:        id,
		FullName:  fmt.Sprintf("User %d", id),
		Email:     fmt.Sprintf("user%d@example.com", id),
		Password:  "hashed:Secret123",
		RoleType:  role,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	profile.UserID = id
	if profile.Level == 0 {
		profile.Level = 1
	}
	p := profile
	db.profiles[id] = &p
	return id
}

func (db *fakeDB) seedCourse(c models.Course) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	c.ID = db.id()
	db.courses[c.ID] = &c
	return c.ID
}

func (db *fakeDB) profile(userID int64) models.Profile {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.profiles[userID]
}

func (db *fakeDB) addPoints(userID int64, points, threshold int) (models.PointsAward, error) {
	p, ok := db.profiles[userID]
	if !ok {
		return models.PointsAward{}, apperrors.ErrProfileNotFound
	}
	prev := p.Level
	p.Points += points
	if p.Points < 0 {
		p.Points = 0
	}
	p.Level = models.LevelForPoints(p.Points, threshold)
	return models.PointsAward{UserID: userID, PointsAdded: points, TotalPoints: p.Points, PreviousLevel: prev, Level: p.Level}, nil
}

// --- users ---

type fakeUserRepo struct{ db *fakeDB }

var _ repositories.IUserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) CreateWithProfile(_ context.Context, user *models.User, profile *models.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = r.db.id()
	user.CreatedAt = time.Now()
	u := *user
	r.db.users[user.ID] = &u
	profile.UserID = user.ID
	profile.ID = r.db.id()
	p := *profile
	r.db.profiles[user.ID] = &p
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, userID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	r.db.users[userID].LastLoginAt = &now
	return nil
}

func (r *fakeUserRepo) UpdateFullName(_ context.Context, userID int64, fullName string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.FullName = fullName
	return nil
}

// --- profiles ---

type fakeProfileRepo struct{ db *fakeDB }

var _ repositories.IProfileRepository = (*fakeProfileRepo)(nil)

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID int64) (*models.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[userID]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	c := *p
	c.Skills = append([]string(nil), p.Skills...)
	c.CareerInterests = append([]string(nil), p.CareerInterests...)
	return &c, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *models.Profile) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.profiles[profile.UserID]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	c := *profile
	// gamification columns are not editable through Update
	c.Points, c.Level, c.ProfileBonusAwarded = stored.Points, stored.Level, stored.ProfileBonusAwarded
	r.db.profiles[profile.UserID] = &c
	profile.Points, profile.Level = c.Points, c.Level
	return nil
}

func (r *fakeProfileRepo) AddPoints(_ context.Context, userID int64, points, threshold int) (models.PointsAward, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.addPoints(userID, points, threshold)
}

func (r *fakeProfileRepo) AwardCompletionBonus(_ context.Context, userID int64, bonus, threshold int) (models.PointsAward, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.profiles[userID]
	if !ok {
		return models.PointsAward{}, false, apperrors.ErrProfileNotFound
	}
	if p.ProfileBonusAwarded {
		return models.PointsAward{}, false, nil
	}
	p.ProfileBonusAwarded = true
	award, err := r.db.addPoints(userID, bonus, threshold)
	return award, err == nil, err
}

func (r *fakeProfileRepo) ListUserIDs(context.Context) ([]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	ids := make([]int64, 0, len(r.db.profiles))
	for id := range r.db.profiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeProfileRepo) SearchBySkill(_ context.Context, skill string, offset, limit int) ([]models.UserProfile, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var matches []models.UserProfile
	for id, p := range r.db.profiles {
		u := r.db.users[id]
		if u.RoleType != models.RoleStudent || !u.IsActive {
			continue
		}
		for _, s := range p.Skills {
			if strings.EqualFold(s, skill) {
				matches = append(matches, models.UserProfile{User: *u, Profile: *p})
				break
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Profile.Points != matches[j].Profile.Points {
			return matches[i].Profile.Points > matches[j].Profile.Points
		}
		return matches[i].User.ID < matches[j].User.ID
	})
	total := int64(len(matches))
	if offset >= len(matches) {
		return []models.UserProfile{}, total, nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], total, nil
}

// --- courses ---

type fakeCourseRepo struct{ db *fakeDB }

var _ repositories.ICourseRepository = (*fakeCourseRepo)(nil)

func (r *fakeCourseRepo) List(_ context.Context, filter models.CourseFilter) ([]models.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Course{}
	for _, c := range r.db.courses {
		if !c.IsActive {
			continue
		}
		if filter.Level != "" && string(c.Level) != filter.Level {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cc := *c
	return &cc, nil
}

func (r *fakeCourseRepo) GetEnrollment(_ context.Context, userID, courseID int64) (*models.UserCourse, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.enrollments[[2]int64{userID, courseID}]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	c := *e
	return &c, nil
}

func (r *fakeCourseRepo) ListEnrollments(_ context.Context, userID int64) ([]models.UserCourse, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.UserCourse{}
	for key, e := range r.db.enrollments {
		if key[0] != userID {
			continue
		}
		c := *e
		course := *r.db.courses[key[1]]
		c.Course = &course
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

func (r *fakeCourseRepo) CreateEnrollment(_ context.Context, e *models.UserCourse) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := [2]int64{e.UserID, e.CourseID}
	if _, ok := r.db.enrollments[key]; ok {
		return apperrors.ErrAlreadyEnrolled
	}
	e.ID = r.db.id()
	e.EnrolledAt = time.Now()
	c := *e
	r.db.enrollments[key] = &c
	return nil
}

func (r *fakeCourseRepo) UpdateProgress(_ context.Context, userID, courseID int64, progress int) (*models.UserCourse, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.enrollments[[2]int64{userID, courseID}]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	if !e.IsCompleted {
		e.Progress = models.ClampProgress(progress)
	}
	c := *e
	return &c, nil
}

// Complete mirrors the is_completed = FALSE guard of the SQL update
func (r *fakeCourseRepo) Complete(_ context.Context, userID, courseID int64, threshold int) (*models.CourseCompletion, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.enrollments[[2]int64{userID, courseID}]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	if e.IsCompleted {
		return nil, apperrors.ErrAlreadyCompleted
	}
	now := time.Now()
	e.IsCompleted, e.Progress, e.CompletedAt = true, 100, &now
	award, err := r.db.addPoints(userID, r.db.courses[courseID].XPReward, threshold)
	if err != nil {
		return nil, err
	}
	c := *e
	return &models.CourseCompletion{Enrollment: &c, Award: award}, nil
}

func (r *fakeCourseRepo) CountEnrollments(_ context.Context, userID int64) (int, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	enrolled, completed := 0, 0
	for key, e := range r.db.enrollments {
		if key[0] != userID {
			continue
		}
		enrolled++
		if e.IsCompleted {
			completed++
		}
	}
	return enrolled, completed, nil
}

// --- projects ---

type fakeProjectRepo struct {
	db       *fakeDB
	searched bool
}

var _ repositories.IProjectRepository = (*fakeProjectRepo)(nil)

func (r *fakeProjectRepo) Create(_ context.Context, p *models.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID = r.db.id()
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	c := *p
	r.db.projects[p.ID] = &c
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id int64) (*models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.projects[id]
	if !ok {
		return nil, apperrors.ErrProjectNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakeProjectRepo) GetByIDs(_ context.Context, ids []int64) ([]models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Project{}
	for _, id := range ids {
		if p, ok := r.db.projects[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) ListByUser(_ context.Context, userID int64) ([]models.Project, error) {
	all, _ := r.ListAll(context.Background())
	out := []models.Project{}
	for _, p := range all {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) ListAll(context.Context) ([]models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Project{}
	for _, p := range r.db.projects {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProjectRepo) Update(_ context.Context, p *models.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.projects[p.ID]; !ok {
		return apperrors.ErrProjectNotFound
	}
	c := *p
	r.db.projects[p.ID] = &c
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.projects[id]; !ok {
		return apperrors.ErrProjectNotFound
	}
	delete(r.db.projects, id)
	return nil
}

func (r *fakeProjectRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	ps, _ := r.ListByUser(ctx, userID)
	return len(ps), nil
}

func (r *fakeProjectRepo) Search(ctx context.Context, q string, offset, limit int) ([]models.Project, int64, error) {
	r.searched = true
	all, _ := r.ListAll(ctx)
	out := []models.Project{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title+" "+p.Description), strings.ToLower(q)) {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

// --- leaderboard ---

// fakeLeaderboardRepo ranks like the SQL query: points desc, level desc,
// user id asc. afterPage runs once a page has been read.
type fakeLeaderboardRepo struct {
	db        *fakeDB
	calls     int
	afterPage func()
}

var _ repositories.ILeaderboardRepository = (*fakeLeaderboardRepo)(nil)

func (r *fakeLeaderboardRepo) ranked() []models.LeaderboardEntry {
	entries := []models.LeaderboardEntry{}
	for id, p := range r.db.profiles {
		u := r.db.users[id]
		entries = append(entries, models.LeaderboardEntry{UserID: id, FullName: u.FullName, Role: string(u.RoleType), Points: p.Points, Level: p.Level})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		return a.UserID < b.UserID
	})
	return entries
}

func (r *fakeLeaderboardRepo) Page(_ context.Context, offset, limit int) ([]models.LeaderboardEntry, error) {
	r.db.mu.Lock()
	r.calls++
	all := r.ranked()
	out := []models.LeaderboardEntry{}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		e := all[i]
		e.Rank = offset + len(out) + 1
		out = append(out, e)
	}
	r.db.mu.Unlock()

	if r.afterPage != nil {
		r.afterPage()
	}
	return out, nil
}

func (r *fakeLeaderboardRepo) Count(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.profiles)), nil
}

func (r *fakeLeaderboardRepo) RankOf(_ context.Context, userID int64) (int, int, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, e := range r.ranked() {
		if e.UserID == userID {
			return i + 1, e.Points, e.Level, nil
		}
	}
	return 0, 0, 0, apperrors.ErrProfileNotFound
}

// --- subscriptions ---

type fakeSubscriptionRepo struct{ db *fakeDB }

var _ repositories.ISubscriptionRepository = (*fakeSubscriptionRepo)(nil)

func (r *fakeSubscriptionRepo) Get(_ context.Context, email, serviceType string) (*models.Subscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.subs[email+"|"+serviceType]
	if !ok {
		return nil, apperrors.ErrSubscriptionNotFound
	}
	c := *s
	return &c, nil
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, s *models.Subscription) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := s.Email + "|" + s.ServiceType
	if _, ok := r.db.subs[key]; ok {
		return apperrors.ErrAlreadySubscribed
	}
	s.ID = r.db.id()
	s.Status = models.SubscriptionActive
	s.SubscribedAt = time.Now()
	c := *s
	r.db.subs[key] = &c
	return nil
}

func (r *fakeSubscriptionRepo) find(id int64) *models.Subscription {
	for _, s := range r.db.subs {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (r *fakeSubscriptionRepo) Reactivate(_ context.Context, id int64, fullName *string) (*models.Subscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s := r.find(id)
	if s == nil || s.Status != models.SubscriptionInactive {
		return nil, apperrors.ErrAlreadySubscribed
	}
	s.Status, s.SubscribedAt, s.UnsubscribedAt = models.SubscriptionActive, time.Now(), nil
	if fullName != nil {
		s.FullName = fullName
	}
	c := *s
	return &c, nil
}

func (r *fakeSubscriptionRepo) Deactivate(_ context.Context, id int64) (*models.Subscription, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s := r.find(id)
	if s == nil || s.Status != models.SubscriptionActive {
		return nil, apperrors.ErrSubscriptionNotFound
	}
	now := time.Now()
	s.Status, s.UnsubscribedAt = models.SubscriptionInactive, &now
	c := *s
	return &c, nil
}

// --- documents ---

type fakeAchievementRepo struct{ db *fakeDB }

var _ repositories.IAchievementRepository = (*fakeAchievementRepo)(nil)

func (r *fakeAchievementRepo) ListByUser(_ context.Context, userID int64) ([]models.Achievement, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]models.Achievement(nil), r.db.achievements[userID]...), nil
}

func (r *fakeAchievementRepo) TitlesByUser(_ context.Context, userID int64) (map[string]struct{}, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	titles := map[string]struct{}{}
	for _, a := range r.db.achievements[userID] {
		titles[a.Title] = struct{}{}
	}
	return titles, nil
}

func (r *fakeAchievementRepo) Insert(_ context.Context, a *models.Achievement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.achievements[a.UserID] {
		if existing.Title == a.Title {
			return apperrors.ErrAchievementAlreadyGranted
		}
	}
	a.ID = primitive.NewObjectID()
	r.db.achievements[a.UserID] = append(r.db.achievements[a.UserID], *a)
	return nil
}

func (r *fakeAchievementRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for userID, list := range r.db.achievements {
		for i, a := range list {
			if a.ID == id {
				r.db.achievements[userID] = append(list[:i:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *fakeAchievementRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.db.achievements[userID]), nil
}

type fakeActivityRepo struct {
	db        *fakeDB
	lastLimit int
}

var _ repositories.IActivityRepository = (*fakeActivityRepo)(nil)

func (r *fakeActivityRepo) Log(_ context.Context, a *models.Activity) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.ID = primitive.NewObjectID()
	r.db.activities = append(r.db.activities, *a)
	return nil
}

func (r *fakeActivityRepo) ListRecent(_ context.Context, userID int64, limit int) ([]models.Activity, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.lastLimit = limit
	out := []models.Activity{}
	for i := len(r.db.activities) - 1; i >= 0 && len(out) < limit; i-- {
		if r.db.activities[i].UserID == userID {
			out = append(out, r.db.activities[i])
		}
	}
	return out, nil
}

func (db *fakeDB) activityTypes(userID int64) []models.ActivityType {
	db.mu.Lock()
	defer db.mu.Unlock()
	var types []models.ActivityType
	for _, a := range db.activities {
		if a.UserID == userID {
			types = append(types, a.Type)
		}
	}
	return types
}

type fakeQuizRepo struct{ db *fakeDB }

var _ repositories.IQuizRepository = (*fakeQuizRepo)(nil)

func (r *fakeQuizRepo) Insert(_ context.Context, q *models.QuizResult) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q.ID = primitive.NewObjectID()
	r.db.quizResults = append(r.db.quizResults, *q)
	return nil
}

func (r *fakeQuizRepo) Latest(_ context.Context, userID int64) (*models.QuizResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := len(r.db.quizResults) - 1; i >= 0; i-- {
		if r.db.quizResults[i].UserID == userID {
			c := r.db.quizResults[i]
			return &c, nil
		}
	}
	return nil, apperrors.ErrQuizResultNotFound
}

// --- collaborators ---

// fakeCache keys pages by version like the Redis cache
type fakeCache struct {
	pages         map[string][]byte
	version       int64
	invalidations int
	hits          int
}

func newFakeCache() *fakeCache {
	return &fakeCache{pages: map[string][]byte{}}
}

func (c *fakeCache) GetPage(_ context.Context, page, size int, dest interface{}) (int64, bool, error) {
	v := c.version
	raw, ok := c.pages[fmt.Sprintf("%d:%d:%d", v, page, size)]
	if !ok {
		return v, false, nil
	}
	c.hits++
	return v, true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetPage(_ context.Context, version int64, page, size int, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.pages[fmt.Sprintf("%d:%d:%d", version, page, size)] = raw
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidations++
	c.version++
	return nil
}

type recordedEvent struct {
	UserID int64
	Type   string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *fakeNotifier) Notify(userID int64, eventType string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{UserID: userID, Type: eventType})
}

func (n *fakeNotifier) has(userID int64, eventType string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e.UserID == userID && e.Type == eventType {
			return true
		}
	}
	return false
}

type sentEmail struct{ To, Kind string }

type fakeEmail struct{ sent []sentEmail }

func (e *fakeEmail) SendWelcomeEmail(to, _ string) error {
	e.sent = append(e.sent, sentEmail{to, "welcome"})
	return nil
}

func (e *fakeEmail) SendSubscriptionConfirmation(to, _, _ string) error {
	e.sent = append(e.sent, sentEmail{to, "subscribed"})
	return nil
}

func (e *fakeEmail) SendUnsubscribeConfirmation(to, _ string) error {
	e.sent = append(e.sent, sentEmail{to, "unsubscribed"})
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(hash, p string) bool   { return hash == "hashed:"+p }

type fakeTokens struct{}

func (fakeTokens) GenerateToken(u *models.User) (string, int64, error) {
	return "token-" + u.Email, 3600, nil
}

// fixture wires every service over one fake database
type fixture struct {
	db       *fakeDB
	cache    *fakeCache
	notifier *fakeNotifier
	email    *fakeEmail
	activity *fakeActivityRepo
	projects *fakeProjectRepo
	board    *fakeLeaderboardRepo
	indexer  *fakeIndexer
	config   GamificationConfig

	achievements AchievementService
	auth         AuthService
	profile      ProfileService
	course       CourseService
	leaderboard  LeaderboardService
	project      ProjectService
	subscription SubscriptionService
	quiz         QuizService
}

func newFixture() *fixture {
	db := newFakeDB()
	f := &fixture{
		db:       db,
		cache:    newFakeCache(),
		notifier: &fakeNotifier{},
		email:    &fakeEmail{},
		activity: &fakeActivityRepo{db: db},
		projects: &fakeProjectRepo{db: db},
		board:    &fakeLeaderboardRepo{db: db},
		indexer:  &fakeIndexer{},
		config:   GamificationConfig{LevelThreshold: 500, ProfileCompletionBonus: 50},
	}

	logger := zerolog.Nop()
	users := &fakeUserRepo{db: db}
	profiles := &fakeProfileRepo{db: db}
	courses := &fakeCourseRepo{db: db}
	achievementRepo := &fakeAchievementRepo{db: db}
	rewards := NewRewardRecorder(f.activity, f.cache, f.notifier, logger)

	f.achievements = NewAchievementService(users, profiles, courses, f.projects, achievementRepo, rewards, f.config, logger)
	f.auth = NewAuthService(users, profiles, plainHasher{}, fakeTokens{}, f.email, rewards, logger)
	f.profile = NewProfileService(users, profiles, f.projects, achievementRepo, f.activity, f.achievements, rewards, f.config, logger)
	f.course = NewCourseService(courses, f.achievements, rewards, f.config, logger)
	f.leaderboard = NewLeaderboardService(f.board, f.cache, logger)
	f.project = NewProjectService(f.projects, users, f.indexer, f.achievements, rewards, logger)
	f.subscription = NewSubscriptionService(&fakeSubscriptionRepo{db: db}, f.email, logger)
	f.quiz = NewQuizService(&fakeQuizRepo{db: db}, courses, logger)
	return f
}

// fakeIndexer is disabled unless enabled is set; hits are returned by Search
type fakeIndexer struct {
	enabled   bool
	failing   bool
	hits      []int64
	indexed   map[int64]bool
	deleted   []int64
	reindexed int
}

func (i *fakeIndexer) Enabled() bool                     { return i.enabled }
func (i *fakeIndexer) EnsureIndex(context.Context) error { return nil }

func (i *fakeIndexer) Index(_ context.Context, p *models.Project) error {
	if i.indexed == nil {
		i.indexed = map[int64]bool{}
	}
	i.indexed[p.ID] = true
	return nil
}

func (i *fakeIndexer) Delete(_ context.Context, id int64) error {
	i.deleted = append(i.deleted, id)
	return nil
}

func (i *fakeIndexer) Search(context.Context, string, int, int) ([]int64, int64, error) {
	if !i.enabled {
		return nil, 0, search.ErrDisabled
	}
	if i.failing {
		return nil, 0, errors.New("cluster unavailable")
	}
	return i.hits, int64(len(i.hits)), nil
}

func (i *fakeIndexer) Reindex(_ context.Context, projects []models.Project) (int, error) {
	i.reindexed = len(projects)
	return len(projects), nil
}
