package domain

// DashboardStats is the manager overview returned by /api/Dashboard/stats.
type DashboardStats struct {
	TotalUsers        int     `json:"totalUsers"`
	TotalBookings     int     `json:"totalBookings"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalServices     int     `json:"totalServices"`
	PendingBookings   int     `json:"pendingBookings"`
	CompletedBookings int     `json:"completedBookings"`
}

type RevenueStats struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	WeeklyRevenue  float64 `json:"weeklyRevenue"`
	DailyRevenue   float64 `json:"dailyRevenue"`
}

type UserStats struct {
	TotalUsers     int `json:"totalUsers"`
	NewUsersMonth  int `json:"newUsersThisMonth"`
	ActiveUsers    int `json:"activeUsers"`
	TotalCustomers int `json:"totalCustomers"`
	TotalStaff     int `json:"totalStaff"`
}

type BookingStats struct {
	TotalBookings     int `json:"totalBookings"`
	PendingBookings   int `json:"pendingBookings"`
	ConfirmedBookings int `json:"confirmedBookings"`
	CompletedBookings int `json:"completedBookings"`
	CancelledBookings int `json:"cancelledBookings"`
}

type ServiceStats struct {
	TotalServices  int `json:"totalServices"`
	ActiveServices int `json:"activeServices"`
}

type MonthlyRevenue struct {
	Month    int     `json:"month"`
	Revenue  float64 `json:"revenue"`
	Bookings int     `json:"bookings"`
}

type ServiceRevenue struct {
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Revenue     float64 `json:"revenue"`
	Bookings    int     `json:"bookings"`
}

type PopularService struct {
	ServiceID    int64  `json:"serviceId"`
	ServiceName  string `json:"serviceName"`
	BookingCount int    `json:"bookingCount"`
}
