// Package correlation routes inbound candidate responses, which carry only a contact
// address, back to the job that candidate was notified about.
package correlation
