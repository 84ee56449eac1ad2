// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import "github.com/dreamcore/site/internal/model"

// MaxMessageLength bounds the contact form message.
const MaxMessageLength = 1000

// Contact validates the public contact form.
var Contact = Schema[model.Contact]{
	String("nome", func(c model.Contact) string { return c.Nome }, MinLen(2)),
	String("email", func(c model.Contact) string { return c.Email }, Email()),
	String("mensagem", func(c model.Contact) string { return c.Mensagem }, MinLen(10), MaxLen(MaxMessageLength)),
}

// Recruitment validates the public recruitment application. Optional fields
// carry no constraint.
var Recruitment = Schema[model.Recruitment]{
	String("nomeCompleto", func(r model.Recruitment) string { return r.NomeCompleto }, MinLen(2)),
	String("idade", func(r model.Recruitment) string { return r.Idade }, MinLen(1)),
	String("localidade", func(r model.Recruitment) string { return r.Localidade }, MinLen(2)),
	String("discord", func(r model.Recruitment) string { return r.Discord }, MinLen(3)),
	String("email", func(r model.Recruitment) string { return r.Email }, Email()),
	MinItems("areaInteresse", func(r model.Recruitment) []string { return r.AreaInteresse }, 1),
	String("experiencia", func(r model.Recruitment) string { return r.Experiencia }, MinLen(10)),
	String("motivacao", func(r model.Recruitment) string { return r.Motivacao }, MinLen(10)),
	String("relacaoGaming", func(r model.Recruitment) string { return r.RelacaoGaming }, MinLen(10)),
	String("ferramentas", func(r model.Recruitment) string { return r.Ferramentas }, MinLen(5)),
	String("experienciaColaborativa", func(r model.Recruitment) string { return r.ExperienciaColaborativa }, MinLen(1)),
	String("horasSemanais", func(r model.Recruitment) string { return r.HorasSemanais }, MinLen(1)),
	String("modeloColaboracao", func(r model.Recruitment) string { return r.ModeloColaboracao }, MinLen(1)),
	MustBeTrue("aceitaPoliticas", func(r model.Recruitment) bool { return r.AceitaPoliticas }),
	String("habilidadePrincipal", func(r model.Recruitment) string { return r.HabilidadePrincipal }, MinLen(10)),
}

// LoginInput is the admin sign-in form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates the sign-in form.
var Login = Schema[LoginInput]{
	String("email", func(in LoginInput) string { return in.Email }, Email()),
	String("password", func(in LoginInput) string { return in.Password }, MinLen(6)),
}

// SignupInput is the account registration form.
type SignupInput struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Signup validates the registration form.
var Signup = Schema[SignupInput]{
	String("fullName", func(in SignupInput) string { return in.FullName }, MinLen(2)),
	String("email", func(in SignupInput) string { return in.Email }, Email()),
	String("password", func(in SignupInput) string { return in.Password }, MinLen(6)),
	EqualsField("confirmPassword",
		func(in SignupInput) string { return in.ConfirmPassword },
		func(in SignupInput) string { return in.Password }),
}

// PasswordChangeInput is the settings password form.
type PasswordChangeInput struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// PasswordChange validates the settings password form.
var PasswordChange = Schema[PasswordChangeInput]{
	String("newPassword", func(in PasswordChangeInput) string { return in.NewPassword }, MinLen(8)),
	EqualsField("confirmPassword",
		func(in PasswordChangeInput) string { return in.ConfirmPassword },
		func(in PasswordChangeInput) string { return in.NewPassword }),
}

// Banner validates the banner manager form.
var Banner = Schema[model.Banner]{
	String("title", func(b model.Banner) string { return b.Title }, Required(), MaxLen(120)),
	String("description", func(b model.Banner) string { return b.Description }, Required()),
	String("imageUrl", func(b model.Banner) string { return b.ImageURL }, OptionalURL()),
}

// Project validates the project manager form.
var Project = Schema[model.Project]{
	String("name", func(p model.Project) string { return p.Name }, Required(), MaxLen(120)),
	String("description", func(p model.Project) string { return p.Description }, Required()),
	String("status", func(p model.Project) string { return string(p.Status) },
		OneOf(string(model.ProjectActive), string(model.ProjectDevelopment))),
	String("link", func(p model.Project) string { return p.Link }, OptionalURL()),
	Predicate("order", KeyOption, func(p model.Project) bool { return p.Order >= 0 }),
}

// AdminUserRoles are the role labels an admin user can be given.
var AdminUserRoles = []string{"admin", "moderator", "editor", "analyst"}

// AdminUser validates the user manager form.
var AdminUser = Schema[model.AdminUser]{
	String("name", func(u model.AdminUser) string { return u.Name }, MinLen(2)),
	String("email", func(u model.AdminUser) string { return u.Email }, Email()),
	String("role", func(u model.AdminUser) string { return u.Role }, OneOf(AdminUserRoles...)),
}
