package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/api/apierr"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// Decode reads a JSON body into dst and validates its struct tags.
// An empty body decodes to the zero value when allowEmpty is set.
func Decode(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return apierr.NewInvalidRequestError("invalid request body")
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
			}
			return apierr.NewInvalidRequestError(strings.Join(fields, "; "))
		}
		return apierr.NewInvalidRequestError("invalid request body")
	}
	return nil
}
