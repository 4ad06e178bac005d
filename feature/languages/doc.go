// Package languages serves reference languages and the native and learning
// languages of each user.
//
// A user may hold at most NativeLimit native and LearningLimit learning
// languages. Other features resolve free-form language values ("en", "English")
// through the shared Cache and check word languages with RequireLearning.
package languages
