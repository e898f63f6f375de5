package service

import "errors"

var (
	// ErrStudentNotFound indicates the student does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrInvalidCredentials is returned for an unknown student id or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled is returned when a deactivated student signs in.
	ErrAccountDisabled = errors.New("account is deactivated")
	// ErrEmailTaken indicates another student already uses the email address.
	ErrEmailTaken = errors.New("email already in use")
	// ErrNotOwner is returned when a student acts on another student's record.
	ErrNotOwner = errors.New("record belongs to another student")
	// ErrFeeNotFound indicates the fee account does not exist.
	ErrFeeNotFound = errors.New("fee record not found")
	// ErrLoanNotFound indicates the library loan does not exist.
	ErrLoanNotFound = errors.New("library record not found")
	// ErrResultNotFound indicates no result was published for the query.
	ErrResultNotFound = errors.New("result not found")
	// ErrNoticeNotFound indicates the notice does not exist or is not visible to the student.
	ErrNoticeNotFound = errors.New("notice not found")
	// ErrNoticeEmpty is returned when sanitising strips the whole notice content.
	ErrNoticeEmpty = errors.New("notice content empty after sanitization")
	// ErrTimetableNotFound indicates no active timetable exists for the cohort.
	ErrTimetableNotFound = errors.New("timetable not found")
	// ErrAssignmentNotFound indicates the requested assignment does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrAlreadySubmitted is returned on a second submission for the same assignment.
	ErrAlreadySubmitted = errors.New("assignment already submitted")
	// ErrUnsupportedFileType is returned for uploads outside the accepted mime types.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrUploaderUnavailable is returned when file uploads are not configured.
	ErrUploaderUnavailable = errors.New("file uploads are not configured")
	// ErrInvalidDate is returned for unparsable timestamps in a payload.
	ErrInvalidDate = errors.New("invalid date")
)
