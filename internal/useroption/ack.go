package useroption

// successStatus is the only acknowledgement status that counts as a completed write.
const successStatus = "success"

// Acknowledgement is the server's reply to a write. Status is empty when the field
// was missing.
type Acknowledgement struct {
	Status string `json:"options"`
}

// IsSuccess reports whether ack confirms the write. The comparison is exact and
// case-sensitive.
func IsSuccess(ack Acknowledgement) bool {
	return ack.Status == successStatus
}

// Check returns a *WriteRejectedError carrying the raw status unless ack confirms the
// write. The returned error has no Key; callers that know it fill it in.
func Check(ack Acknowledgement) error {
	if IsSuccess(ack) {
		return nil
	}
	return &WriteRejectedError{Status: ack.Status}
}
