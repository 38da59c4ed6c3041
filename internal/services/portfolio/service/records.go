package service

import (
	"context"

	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
)

const (
	entitySkill         = "skill"
	entityProject       = "project"
	entityExperience    = "experience"
	entityCertification = "certification"
)

func skills(doc *content.Document) *[]content.Skill                 { return &doc.Skills }
func projects(doc *content.Document) *[]content.Project             { return &doc.Projects }
func experiences(doc *content.Document) *[]content.Experience       { return &doc.Experiences }
func certifications(doc *content.Document) *[]content.Certification { return &doc.Certifications }

// ListSkills returns every skill in stored order.
func (s *Service) ListSkills(ctx context.Context) ([]content.Skill, error) {
	return list(ctx, s, skills)
}

// CreateSkill adds a skill.
func (s *Service) CreateSkill(ctx context.Context, input content.Skill) (content.Skill, error) {
	return insert(ctx, s, skills, func(doc *content.Document, recordID string) (content.Skill, error) {
		sk := input
		sk.ID = recordID
		if err := checkSkill(*doc, &sk); err != nil {
			return content.Skill{}, err
		}
		return sk, nil
	})
}

// UpdateSkill merges patch into the skill.
func (s *Service) UpdateSkill(ctx context.Context, recordID string, patch content.SkillPatch) (content.Skill, error) {
	return modify(ctx, s, entitySkill, recordID, skills, func(doc *content.Document, sk *content.Skill) error {
		patch.Apply(sk)
		return checkSkill(*doc, sk)
	})
}

// DeleteSkill removes a skill.
func (s *Service) DeleteSkill(ctx context.Context, recordID string) error {
	return remove(ctx, s, entitySkill, recordID, skills, nil)
}

func checkSkill(doc content.Document, sk *content.Skill) error {
	sk.Normalize()
	if err := sk.Validate(); err != nil {
		return err
	}
	return requireCategory(doc, sk.Category)
}

// ListProjects returns every project in stored order.
func (s *Service) ListProjects(ctx context.Context) ([]content.Project, error) {
	return list(ctx, s, projects)
}

// CreateProject adds a project.
func (s *Service) CreateProject(ctx context.Context, input content.Project) (content.Project, error) {
	return insert(ctx, s, projects, func(doc *content.Document, recordID string) (content.Project, error) {
		p := input
		p.ID = recordID
		if err := checkProject(*doc, &p); err != nil {
			return content.Project{}, err
		}
		return p, nil
	})
}

// UpdateProject merges patch into the project.
func (s *Service) UpdateProject(ctx context.Context, recordID string, patch content.ProjectPatch) (content.Project, error) {
	return modify(ctx, s, entityProject, recordID, projects, func(doc *content.Document, p *content.Project) error {
		patch.Apply(p)
		return checkProject(*doc, p)
	})
}

// DeleteProject removes a project.
func (s *Service) DeleteProject(ctx context.Context, recordID string) error {
	return remove(ctx, s, entityProject, recordID, projects, nil)
}

func checkProject(doc content.Document, p *content.Project) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	return requireCategory(doc, p.Category)
}

// ListExperiences returns every experience in stored order.
func (s *Service) ListExperiences(ctx context.Context) ([]content.Experience, error) {
	return list(ctx, s, experiences)
}

// CreateExperience adds an experience.
func (s *Service) CreateExperience(ctx context.Context, input content.Experience) (content.Experience, error) {
	return insert(ctx, s, experiences, func(_ *content.Document, recordID string) (content.Experience, error) {
		e := input
		e.ID = recordID
		e.Normalize()
		if err := e.Validate(); err != nil {
			return content.Experience{}, err
		}
		return e, nil
	})
}

// UpdateExperience merges patch into the experience.
func (s *Service) UpdateExperience(ctx context.Context, recordID string, patch content.ExperiencePatch) (content.Experience, error) {
	return modify(ctx, s, entityExperience, recordID, experiences, func(_ *content.Document, e *content.Experience) error {
		patch.Apply(e)
		e.Normalize()
		return e.Validate()
	})
}

// DeleteExperience removes an experience.
func (s *Service) DeleteExperience(ctx context.Context, recordID string) error {
	return remove(ctx, s, entityExperience, recordID, experiences, nil)
}

// ListCertifications returns every certification in stored order.
func (s *Service) ListCertifications(ctx context.Context) ([]content.Certification, error) {
	return list(ctx, s, certifications)
}

// CreateCertification adds a certification.
func (s *Service) CreateCertification(ctx context.Context, input content.Certification) (content.Certification, error) {
	return insert(ctx, s, certifications, func(_ *content.Document, recordID string) (content.Certification, error) {
		c := input
		c.ID = recordID
		if err := c.Validate(); err != nil {
			return content.Certification{}, err
		}
		return c, nil
	})
}

// UpdateCertification merges patch into the certification.
func (s *Service) UpdateCertification(ctx context.Context, recordID string, patch content.CertificationPatch) (content.Certification, error) {
	return modify(ctx, s, entityCertification, recordID, certifications, func(_ *content.Document, c *content.Certification) error {
		patch.Apply(c)
		return c.Validate()
	})
}

// DeleteCertification removes a certification.
func (s *Service) DeleteCertification(ctx context.Context, recordID string) error {
	return remove(ctx, s, entityCertification, recordID, certifications, nil)
}
