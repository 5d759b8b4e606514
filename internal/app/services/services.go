package services

// Services defined in this package:
// - CourseService: course CRUD and the approval workflow, scoped by caller role and ownership
// - AuthService: registration, login and the current-user lookup
// - UserService: user directory queries for admins
