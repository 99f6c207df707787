// Package account exposes registration and login over HTTP.
package account
