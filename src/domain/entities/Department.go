package entities

type Department struct {
	ID        int64  `json:"id"`
	ShortName string `json:"short_name" validate:"required"`
	LongName  string `json:"long_name"`
}
