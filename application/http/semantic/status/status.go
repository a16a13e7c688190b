package status

import "strconv"

type Status struct {
	Code         uint
	ReasonPhrase string
}

func (s Status) String() string {
	return strconv.FormatUint(uint64(s.Code), 10) + " " + s.ReasonPhrase
}

// Class returns the first digit of the code, e.g. 4 for 404.
func (s Status) Class() uint { return s.Code / 100 }

// Statuses the adapters and the service produce.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15
var (
	OK                   = Status{200, "OK"}
	Created              = Status{201, "Created"}
	NoContent            = Status{204, "No Content"}
	PartialContent       = Status{206, "Partial Content"}
	NotModified          = Status{304, "Not Modified"}
	BadRequest           = Status{400, "Bad Request"}
	NotFound             = Status{404, "Not Found"}
	NotAcceptable        = Status{406, "Not Acceptable"}
	PreconditionFailed   = Status{412, "Precondition Failed"}
	ContentTooLarge      = Status{413, "Content Too Large"}
	UnsupportedMediaType = Status{415, "Unsupported Media Type"}
	RangeNotSatisfiable  = Status{416, "Range Not Satisfiable"}
	InternalServerError  = Status{500, "Internal Server Error"}
)
