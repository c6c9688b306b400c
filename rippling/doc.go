// Package rippling provides the authenticated HTTP layer for the Rippling API.
//
// A Client resolves paths against a base URL (ProductionURL, or a local mock
// origin in tests). A Session owns the access token and the optional tenant
// context and is the factory for authenticated requests:
//
//	client := rippling.New(rippling.ProductionURL, logger)
//	session := rippling.NewSession(client, token)
//	session.SetTenant(companyID, roleID)
//
//	resp, err := session.Post("pto/api/get_holiday_calendar/").
//		SendJSON(ctx, map[string]bool{"only_payable": false})
//	if err != nil {
//		return err
//	}
//	calendar, err := rippling.ParseJSON[[]pto.HolidaysOfYear](resp)
//
// # Classification
//
// A Response is parsed only when its status is in the accepted set (200 and
// 201 by default, see Response.WithAcceptedStatuses). Failures are reported
// as *Error with one of three kinds, each matched by a sentinel:
//
//   - ErrTransport: the call did not complete
//   - ErrRejectedStatus: the server answered with a status outside the set
//   - ErrDecode: the status was accepted but the body had the wrong shape
//
// Malformed request paths and restoring a session without a stored token
// are configuration errors and panic.
package rippling
