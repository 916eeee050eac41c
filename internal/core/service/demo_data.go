package service

import "github.com/carepoint/portal-client/internal/core/domain"

// Sample figures served by DashboardService in demo mode.

func demoStats() domain.DashboardStats {
	return domain.DashboardStats{
		TotalUsers:        248,
		TotalBookings:     1312,
		TotalRevenue:      96450,
		TotalServices:     12,
		PendingBookings:   37,
		CompletedBookings: 1189,
	}
}

func demoRevenue() domain.RevenueStats {
	return domain.RevenueStats{
		TotalRevenue:   96450,
		MonthlyRevenue: 8420,
		WeeklyRevenue:  2050,
		DailyRevenue:   310,
	}
}

func demoUsers() domain.UserStats {
	return domain.UserStats{
		TotalUsers:     248,
		NewUsersMonth:  19,
		ActiveUsers:    173,
		TotalCustomers: 221,
		TotalStaff:     27,
	}
}

func demoBookings() domain.BookingStats {
	return domain.BookingStats{
		TotalBookings:     1312,
		PendingBookings:   37,
		ConfirmedBookings: 64,
		CompletedBookings: 1189,
		CancelledBookings: 22,
	}
}

func demoServices() domain.ServiceStats {
	return domain.ServiceStats{TotalServices: 12, ActiveServices: 10}
}

func demoMonthlyRevenue() []domain.MonthlyRevenue {
	revenue := []float64{6100, 6480, 7020, 7390, 7810, 8050, 8420, 8210, 7940, 8300, 8890, 9240}
	out := make([]domain.MonthlyRevenue, len(revenue))
	for i, r := range revenue {
		out[i] = domain.MonthlyRevenue{Month: i + 1, Revenue: r, Bookings: int(r / 75)}
	}
	return out
}

func demoRevenueByService() []domain.ServiceRevenue {
	return []domain.ServiceRevenue{
		{ServiceID: 1, ServiceName: "STI Screening", Revenue: 31200, Bookings: 416},
		{ServiceID: 2, ServiceName: "Contraception Counselling", Revenue: 22800, Bookings: 380},
		{ServiceID: 3, ServiceName: "Fertility Consultation", Revenue: 19650, Bookings: 131},
		{ServiceID: 4, ServiceName: "HIV Testing", Revenue: 12400, Bookings: 248},
		{ServiceID: 5, ServiceName: "Menstrual Health Review", Revenue: 10400, Bookings: 137},
	}
}

func demoPopularServices() []domain.PopularService {
	byRevenue := demoRevenueByService()
	out := make([]domain.PopularService, len(byRevenue))
	for i, s := range byRevenue {
		out[i] = domain.PopularService{ServiceID: s.ServiceID, ServiceName: s.ServiceName, BookingCount: s.Bookings}
	}
	return out
}
