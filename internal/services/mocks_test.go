package services

import "github.com/stretchr/testify/mock"

type mockDatasetStatus struct {
	mock.Mock
}

func (m *mockDatasetStatus) Loaded() bool {
	return m.Called().Bool(0)
}

func (m *mockDatasetStatus) Rows() int {
	return m.Called().Int(0)
}

type mockHub struct {
	mock.Mock
}

func (m *mockHub) ClientCount() int {
	return m.Called().Int(0)
}

func (m *mockHub) Stats() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}
