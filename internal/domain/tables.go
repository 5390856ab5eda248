package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	// Restaurant
	&Order{},
	&Reservation{},
	&Payment{},
}
