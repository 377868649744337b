package service

import (
	"context"
	"time"

	"peopleops/internal/model"
	"peopleops/internal/notify"
	"peopleops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// In-memory repository fakes. The services only touch repositories through
// their interfaces, so the workflow logic is testable without postgres.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturePublisher struct {
	events []notify.Event
}

func (p *capturePublisher) Publish(event notify.Event) {
	p.events = append(p.events, event)
}

// --- employees ---

type fakeEmployeeRepo struct {
	employees map[uuid.UUID]*model.Employee
	units     map[uuid.UUID]*model.BusinessUnit
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		employees: make(map[uuid.UUID]*model.Employee),
		units:     make(map[uuid.UUID]*model.BusinessUnit),
	}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	r.employees[employee.ID] = employee
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	employee, ok := r.employees[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return employee, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, _, _ int) ([]model.Employee, int64, error) {
	var out []model.Employee
	for _, e := range r.employees {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEmployeeRepo) Update(_ context.Context, employee *model.Employee) error {
	r.employees[employee.ID] = employee
	return nil
}

func (r *fakeEmployeeRepo) CreateBusinessUnit(_ context.Context, unit *model.BusinessUnit) error {
	if unit.ID == uuid.Nil {
		unit.ID = uuid.New()
	}
	r.units[unit.ID] = unit
	return nil
}

func (r *fakeEmployeeRepo) GetBusinessUnit(_ context.Context, id string) (*model.BusinessUnit, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	unit, ok := r.units[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return unit, nil
}

func (r *fakeEmployeeRepo) ListBusinessUnits(_ context.Context) ([]model.BusinessUnit, error) {
	var out []model.BusinessUnit
	for _, u := range r.units {
		out = append(out, *u)
	}
	return out, nil
}

// --- projects ---

type fakeProjectRepo struct {
	projects map[uuid.UUID]*model.Project
	members  map[uuid.UUID]*model.ProjectMember
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[uuid.UUID]*model.Project),
		members:  make(map[uuid.UUID]*model.ProjectMember),
	}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *model.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	project, ok := r.projects[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (r *fakeProjectRepo) List(_ context.Context, _, _ int) ([]model.Project, int64, error) {
	var out []model.Project
	for _, p := range r.projects {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProjectRepo) Update(_ context.Context, project *model.Project) error {
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) CreateMember(_ context.Context, member *model.ProjectMember) error {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	r.members[member.ID] = member
	return nil
}

func (r *fakeProjectRepo) GetMember(_ context.Context, id string) (*model.ProjectMember, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	member, ok := r.members[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	member.Project = r.projects[member.ProjectID]
	return member, nil
}

func (r *fakeProjectRepo) UpdateMember(_ context.Context, member *model.ProjectMember) error {
	r.members[member.ID] = member
	return nil
}

func (r *fakeProjectRepo) ListMembersByProject(_ context.Context, projectID uuid.UUID) ([]model.ProjectMember, error) {
	var out []model.ProjectMember
	for _, m := range r.members {
		if m.ProjectID == projectID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) ListActiveMembersByEmployee(_ context.Context, employeeID uuid.UUID) ([]model.ProjectMember, error) {
	var out []model.ProjectMember
	for _, m := range r.members {
		if m.EmployeeID == employeeID && m.Active {
			member := *m
			member.Project = r.projects[m.ProjectID]
			out = append(out, member)
		}
	}
	return out, nil
}

// --- wbs ---

type fakeWBSRepo struct {
	elements    map[uuid.UUID]*model.WBSElement
	allocations map[uuid.UUID]*model.WBSAllocation
}

func newFakeWBSRepo() *fakeWBSRepo {
	return &fakeWBSRepo{
		elements:    make(map[uuid.UUID]*model.WBSElement),
		allocations: make(map[uuid.UUID]*model.WBSAllocation),
	}
}

func (r *fakeWBSRepo) CreateElement(_ context.Context, element *model.WBSElement) error {
	if element.ID == uuid.Nil {
		element.ID = uuid.New()
	}
	r.elements[element.ID] = element
	return nil
}

func (r *fakeWBSRepo) GetElement(_ context.Context, id string) (*model.WBSElement, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	element, ok := r.elements[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return element, nil
}

func (r *fakeWBSRepo) GetElementByCode(_ context.Context, projectID uuid.UUID, code string) (*model.WBSElement, error) {
	for _, e := range r.elements {
		if e.ProjectID == projectID && e.Code == code {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeWBSRepo) ListElementsByProject(_ context.Context, projectID uuid.UUID) ([]model.WBSElement, error) {
	var out []model.WBSElement
	for _, e := range r.elements {
		if e.ProjectID == projectID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeWBSRepo) UpdateElement(_ context.Context, element *model.WBSElement) error {
	r.elements[element.ID] = element
	return nil
}

func (r *fakeWBSRepo) CreateAllocation(_ context.Context, allocation *model.WBSAllocation) error {
	if allocation.ID == uuid.Nil {
		allocation.ID = uuid.New()
	}
	r.allocations[allocation.ID] = allocation
	return nil
}

func (r *fakeWBSRepo) GetAllocation(_ context.Context, id string) (*model.WBSAllocation, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	allocation, ok := r.allocations[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return allocation, nil
}

func (r *fakeWBSRepo) UpdateAllocation(_ context.Context, allocation *model.WBSAllocation) error {
	r.allocations[allocation.ID] = allocation
	return nil
}

func (r *fakeWBSRepo) ListActiveAllocations(_ context.Context, memberID, wbsElementID uuid.UUID) ([]model.WBSAllocation, error) {
	var out []model.WBSAllocation
	for _, a := range r.allocations {
		if a.MemberID == memberID && a.WBSElementID == wbsElementID && a.Active {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeWBSRepo) ListAllocationsByMember(_ context.Context, memberID uuid.UUID) ([]model.WBSAllocation, error) {
	var out []model.WBSAllocation
	for _, a := range r.allocations {
		if a.MemberID == memberID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// --- holidays ---

type fakeHolidayRepo struct {
	calendars map[uuid.UUID]*model.HolidayCalendar
	days      []*model.HolidayDay
}

func newFakeHolidayRepo() *fakeHolidayRepo {
	return &fakeHolidayRepo{calendars: make(map[uuid.UUID]*model.HolidayCalendar)}
}

func (r *fakeHolidayRepo) CreateCalendar(_ context.Context, calendar *model.HolidayCalendar) error {
	if calendar.ID == uuid.Nil {
		calendar.ID = uuid.New()
	}
	r.calendars[calendar.ID] = calendar
	return nil
}

func (r *fakeHolidayRepo) GetCalendar(_ context.Context, id string) (*model.HolidayCalendar, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	calendar, ok := r.calendars[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return calendar, nil
}

func (r *fakeHolidayRepo) ListCalendars(_ context.Context) ([]model.HolidayCalendar, error) {
	var out []model.HolidayCalendar
	for _, c := range r.calendars {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeHolidayRepo) AddDay(_ context.Context, day *model.HolidayDay) error {
	if day.ID == uuid.Nil {
		day.ID = uuid.New()
	}
	r.days = append(r.days, day)
	return nil
}

func (r *fakeHolidayRepo) RemoveDay(_ context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil
	}
	for i, d := range r.days {
		if d.ID == parsed {
			r.days = append(r.days[:i], r.days[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeHolidayRepo) DayExists(_ context.Context, calendarID uuid.UUID, date time.Time) (bool, error) {
	for _, d := range r.days {
		if d.CalendarID == calendarID && model.SameDay(d.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeHolidayRepo) ListDays(_ context.Context, calendarID uuid.UUID, from, to time.Time) ([]model.HolidayDay, error) {
	var out []model.HolidayDay
	for _, d := range r.days {
		day := model.DateOnly(d.Date)
		if d.CalendarID == calendarID && !day.Before(model.DateOnly(from)) && !day.After(model.DateOnly(to)) {
			out = append(out, *d)
		}
	}
	return out, nil
}

// --- balances ---

type fakeBalanceRepo struct {
	rows map[repository.BalanceKey]*model.LeaveBalance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{rows: make(map[repository.BalanceKey]*model.LeaveBalance)}
}

func (r *fakeBalanceRepo) key(b *model.LeaveBalance) repository.BalanceKey {
	return repository.BalanceKey{
		EmployeeID:     b.EmployeeID,
		BusinessUnitID: b.BusinessUnitID,
		Year:           b.Year,
		LeaveType:      b.LeaveType,
	}
}

func (r *fakeBalanceRepo) Get(_ context.Context, key repository.BalanceKey) (*model.LeaveBalance, error) {
	row, ok := r.rows[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *fakeBalanceRepo) EnsureRow(_ context.Context, key repository.BalanceKey) error {
	if _, ok := r.rows[key]; ok {
		return nil
	}
	r.rows[key] = &model.LeaveBalance{
		ID:             uuid.New(),
		EmployeeID:     key.EmployeeID,
		BusinessUnitID: key.BusinessUnitID,
		Year:           key.Year,
		LeaveType:      key.LeaveType,
		Allocated:      decimal.Zero,
		Consumed:       decimal.Zero,
	}
	return nil
}

func (r *fakeBalanceRepo) GetForUpdate(ctx context.Context, key repository.BalanceKey) (*model.LeaveBalance, error) {
	return r.Get(ctx, key)
}

func (r *fakeBalanceRepo) Save(_ context.Context, balance *model.LeaveBalance) error {
	r.rows[r.key(balance)] = balance
	return nil
}

func (r *fakeBalanceRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID, year int) ([]model.LeaveBalance, error) {
	var out []model.LeaveBalance
	for _, b := range r.rows {
		if b.EmployeeID == employeeID && (year == 0 || b.Year == year) {
			out = append(out, *b)
		}
	}
	return out, nil
}

// --- leave requests ---

type fakeLeaveRepo struct {
	requests map[uuid.UUID]*model.LeaveRequest
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[uuid.UUID]*model.LeaveRequest)}
}

func (r *fakeLeaveRepo) Create(_ context.Context, request *model.LeaveRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	r.requests[request.ID] = request
	return nil
}

func (r *fakeLeaveRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	request, ok := r.requests[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return request, nil
}

func (r *fakeLeaveRepo) Update(_ context.Context, request *model.LeaveRequest) error {
	r.requests[request.ID] = request
	return nil
}

func (r *fakeLeaveRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID, _, _ int) ([]model.LeaveRequest, int64, error) {
	var out []model.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID {
			out = append(out, *req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeaveRepo) ListByStatus(_ context.Context, status model.LeaveStatus, _, _ int) ([]model.LeaveRequest, int64, error) {
	var out []model.LeaveRequest
	for _, req := range r.requests {
		if req.Status == status {
			out = append(out, *req)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeLeaveRepo) ListApprovedOverlapping(_ context.Context, employeeID uuid.UUID, leaveType model.LeaveType, from, to time.Time) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID != employeeID || req.LeaveType != leaveType || req.Status != model.LeaveStatusApproved {
			continue
		}
		if req.FromDate.After(model.DateOnly(to)) || req.ToDate.Before(model.DateOnly(from)) {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

// --- time entries ---

type fakeEntryRepo struct {
	entries   map[uuid.UUID]*model.TimeEntry
	approvals []*model.TimeEntryApproval
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[uuid.UUID]*model.TimeEntry)}
}

func (r *fakeEntryRepo) Create(_ context.Context, entry *model.TimeEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeEntryRepo) GetByID(_ context.Context, id string) (*model.TimeEntry, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	entry, ok := r.entries[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (r *fakeEntryRepo) Update(_ context.Context, entry *model.TimeEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeEntryRepo) LeaveEntryExists(_ context.Context, employeeID, projectID uuid.UUID, workDate time.Time) (bool, error) {
	for _, e := range r.entries {
		if e.EmployeeID == employeeID && e.ProjectID == projectID &&
			e.EntryType == model.EntryTypeLeave && model.SameDay(e.WorkDate, workDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEntryRepo) ListByEmployeeRange(_ context.Context, employeeID uuid.UUID, from, to time.Time) ([]model.TimeEntry, error) {
	var out []model.TimeEntry
	for _, e := range r.entries {
		day := model.DateOnly(e.WorkDate)
		if e.EmployeeID == employeeID && !day.Before(model.DateOnly(from)) && !day.After(model.DateOnly(to)) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) ListByProjectRange(_ context.Context, projectID uuid.UUID, from, to time.Time) ([]model.TimeEntry, error) {
	var out []model.TimeEntry
	for _, e := range r.entries {
		day := model.DateOnly(e.WorkDate)
		if e.ProjectID == projectID && !day.Before(model.DateOnly(from)) && !day.After(model.DateOnly(to)) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) CreateApproval(_ context.Context, approval *model.TimeEntryApproval) error {
	if approval.ID == uuid.Nil {
		approval.ID = uuid.New()
	}
	r.approvals = append(r.approvals, approval)
	return nil
}

func (r *fakeEntryRepo) ListApprovals(_ context.Context, timeEntryID uuid.UUID) ([]model.TimeEntryApproval, error) {
	var out []model.TimeEntryApproval
	for _, a := range r.approvals {
		if a.TimeEntryID == timeEntryID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// --- audit ---

type fakeAuditRepo struct {
	logs []*model.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.logs = append(r.logs, entry)
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	var out []model.AuditLog
	for _, l := range r.logs {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

// fixture wires every service over the fakes, mirroring the dependency
// graph the real wiring builds.
type fixture struct {
	employeeRepo *fakeEmployeeRepo
	projectRepo  *fakeProjectRepo
	wbsRepo      *fakeWBSRepo
	holidayRepo  *fakeHolidayRepo
	balanceRepo  *fakeBalanceRepo
	leaveRepo    *fakeLeaveRepo
	entryRepo    *fakeEntryRepo
	auditRepo    *fakeAuditRepo
	events       *capturePublisher

	balances    BalanceService
	holidays    HolidayService
	allocations AllocationService
	entries     TimeEntryService
	leaves      LeaveService
	summaries   SummaryService
	payroll     PayrollService
}

func newFixture() *fixture {
	f := &fixture{
		employeeRepo: newFakeEmployeeRepo(),
		projectRepo:  newFakeProjectRepo(),
		wbsRepo:      newFakeWBSRepo(),
		holidayRepo:  newFakeHolidayRepo(),
		balanceRepo:  newFakeBalanceRepo(),
		leaveRepo:    newFakeLeaveRepo(),
		entryRepo:    newFakeEntryRepo(),
		auditRepo:    &fakeAuditRepo{},
		events:       &capturePublisher{},
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	audit := NewAuditRecorder(f.auditRepo, logger)
	txm := fakeTxManager{}

	f.balances = NewBalanceService(f.balanceRepo, txm, audit)
	f.holidays = NewHolidayService(f.holidayRepo)
	f.allocations = NewAllocationService(f.wbsRepo, f.projectRepo, txm, audit)
	f.entries = NewTimeEntryService(f.entryRepo, f.projectRepo, f.wbsRepo, f.allocations, txm, audit, f.events)
	f.leaves = NewLeaveService(
		f.leaveRepo, f.employeeRepo, f.projectRepo, f.wbsRepo, f.entryRepo,
		f.balances, f.holidays, f.allocations, txm, audit, f.events,
	)
	f.summaries = NewSummaryService(f.projectRepo, f.entryRepo, f.holidays)
	f.payroll = NewPayrollService(f.leaveRepo)
	return f
}

// seed helpers

func (f *fixture) seedEmployee(unit *model.BusinessUnit) *model.Employee {
	if unit == nil {
		unit = &model.BusinessUnit{Name: "Engineering", Code: "ENG"}
		_ = f.employeeRepo.CreateBusinessUnit(context.Background(), unit)
	}
	employee := &model.Employee{
		FullName:       "Dana Reyes",
		Email:          uuid.NewString()[:8] + "@example.com",
		BusinessUnitID: unit.ID,
		Active:         true,
	}
	_ = f.employeeRepo.Create(context.Background(), employee)
	return employee
}

func (f *fixture) seedProject(name, code string) *model.Project {
	project := &model.Project{Name: name, Code: code, Active: true}
	_ = f.projectRepo.Create(context.Background(), project)
	return project
}

func (f *fixture) seedMember(project *model.Project, employee *model.Employee) *model.ProjectMember {
	member := &model.ProjectMember{
		ProjectID:  project.ID,
		EmployeeID: employee.ID,
		Active:     true,
	}
	_ = f.projectRepo.CreateMember(context.Background(), member)
	return member
}

func (f *fixture) seedElement(project *model.Project, code string) *model.WBSElement {
	element := &model.WBSElement{
		ProjectID: project.ID,
		Name:      code,
		Code:      code,
		Category:  model.WBSCategoryDelivery,
	}
	_ = f.wbsRepo.CreateElement(context.Background(), element)
	return element
}

func (f *fixture) seedAllocation(member *model.ProjectMember, element *model.WBSElement) *model.WBSAllocation {
	allocation := &model.WBSAllocation{
		MemberID:     member.ID,
		WBSElementID: element.ID,
		Active:       true,
	}
	_ = f.wbsRepo.CreateAllocation(context.Background(), allocation)
	return allocation
}

func (f *fixture) seedBalance(employee *model.Employee, year int, leaveType model.LeaveType, allocated string) *model.LeaveBalance {
	alloc, _ := decimal.NewFromString(allocated)
	balance := &model.LeaveBalance{
		ID:             uuid.New(),
		EmployeeID:     employee.ID,
		BusinessUnitID: employee.BusinessUnitID,
		Year:           year,
		LeaveType:      leaveType,
		Allocated:      alloc,
		Consumed:       decimal.Zero,
	}
	_ = f.balanceRepo.Save(context.Background(), balance)
	return balance
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
