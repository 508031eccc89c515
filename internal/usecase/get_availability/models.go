package get_availability

import "time"

// Request запрос свободных часов консульториев на дату
type Request struct {
	ResourceID int64
	Date       time.Time // день в часовом поясе клиники, время игнорируется
}

// Response сетка слотов на день
type Response struct {
	ResourceID int64
	Date       time.Time
	Slots      []Slot
}

// Slot часовой слот в пределах часов работы
type Slot struct {
	Start              time.Time
	End                time.Time
	Available          bool // консульторий свободен
	AccessoryAvailable bool // камилья свободна
}
