// Package fakeapi is an in-memory implementation of the API Challenges todo service.
//
// It exists so that the contract tests and the framework can be tested without network
// access. It implements the resources, validation rules, and error messages that the contract
// tests check, and it tracks challenge progress per session the way the real service does. It
// is not a complete reimplementation of the service.
package fakeapi
