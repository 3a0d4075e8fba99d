package dashboard

// LiveEmployee is an open entry joined with its directory record.
type LiveEmployee struct {
	EmployeeID     string `json:"employeeId"`
	EmployeeName   string `json:"employeeName"`
	Department     string `json:"department"`
	EntryID        string `json:"entryId"`
	ClockedInAt    string `json:"clockedInAt"`
	ElapsedMinutes int    `json:"elapsedMinutes"`
}

// DirectoryEmployee is a directory record with no open entry.
type DirectoryEmployee struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Department   string `json:"department"`
}

type LiveResponse struct {
	LiveCount     int                 `json:"liveCount"`
	LiveEmployees []LiveEmployee      `json:"liveEmployees"`
	NotClockedIn  []DirectoryEmployee `json:"notClockedIn"`
}

// DailyCount is one day of the trailing-week present series.
type DailyCount struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
}

// EmployeeMetrics summarizes one employee over the summary range.
type EmployeeMetrics struct {
	EmployeeID       string `json:"employeeId"`
	EmployeeName     string `json:"employeeName"`
	Department       string `json:"department"`
	DaysPresent      int    `json:"daysPresent"`
	AvgMinutesPerDay int    `json:"avgMinutesPerDay"`
	LateArrivals     int    `json:"lateArrivals"`
	EarlyDepartures  int    `json:"earlyDepartures"`
}

type SummaryResponse struct {
	Date             string            `json:"date"`
	PresentToday     int               `json:"presentToday"`
	AutoExpiredToday int               `json:"autoExpiredToday"`
	AbsentToday      int               `json:"absentToday"`
	FlaggedEntries   int               `json:"flaggedEntries"`
	DailyAttendance  []DailyCount      `json:"dailyAttendance"`
	EmployeeMetrics  []EmployeeMetrics `json:"employeeMetrics"`
}
