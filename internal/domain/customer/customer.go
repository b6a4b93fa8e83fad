package customer

import "time"

// CreatedAtLayout is fixed width so that text order matches time order.
const CreatedAtLayout = "2006-01-02T15:04:05.000000"

type Customer struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Aadhar      string  `json:"aadhar"`
	Phone       string  `json:"phone"`
	Months      int     `json:"months"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
	CreatedAt   string  `json:"created_at"`
}

// Input carries the caller-supplied fields of a new customer.
type Input struct {
	Name        string
	Address     string
	Aadhar      string
	Phone       string
	Months      int
	Amount      float64
	PaymentDate string
}

func NewCustomer(in Input, createdAt time.Time) *Customer {
	return &Customer{
		Name:        in.Name,
		Address:     in.Address,
		Aadhar:      in.Aadhar,
		Phone:       in.Phone,
		Months:      in.Months,
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		CreatedAt:   FormatCreatedAt(createdAt),
	}
}

func FormatCreatedAt(t time.Time) string {
	return t.Local().Format(CreatedAtLayout)
}
