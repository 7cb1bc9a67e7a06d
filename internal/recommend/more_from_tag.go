package recommend

import (
    "context"
    "sort"

    "github.com/d60-Lab/forum-core/internal/model"
    "github.com/d60-Lab/forum-core/internal/repository"
)

// 标签策略的候选池大小：先取近期高分帖，再在内存里按重叠度排
const tagCandidatePool = 200

// MoreFromTagStrategy 与种子帖标签重叠的帖子，重叠度优先、分数次之
type MoreFromTagStrategy struct {
    posts repository.PostRepository
}

func NewMoreFromTagStrategy(posts repository.PostRepository) *MoreFromTagStrategy {
    return &MoreFromTagStrategy{posts: posts}
}

func (s *MoreFromTagStrategy) Recommend(ctx context.Context, user *model.User, count int, spec Spec) ([]*model.Post, error) {
    if spec.PostID == "" {
        return nil, nil
    }
    seed, err := s.posts.GetByID(ctx, spec.PostID)
    if err != nil {
        return nil, err
    }
    if seed == nil || len(seed.Tags) == 0 {
        return nil, nil
    }
    seedTags := make(map[string]struct{}, len(seed.Tags))
    for _, t := range seed.Tags {
        seedTags[t] = struct{}{}
    }

    candidates, err := s.posts.RecentTopRated(ctx, seed.ID, tagCandidatePool)
    if err != nil {
        return nil, err
    }

    type scored struct {
        post    *model.Post
        overlap int
    }
    matched := make([]scored, 0, len(candidates))
    for _, p := range candidates {
        overlap := 0
        for _, t := range p.Tags {
            if _, ok := seedTags[t]; ok {
                overlap++
            }
        }
        if overlap > 0 {
            matched = append(matched, scored{post: p, overlap: overlap})
        }
    }
    sort.SliceStable(matched, func(i, j int) bool {
        if matched[i].overlap != matched[j].overlap {
            return matched[i].overlap > matched[j].overlap
        }
        return matched[i].post.BaseScore > matched[j].post.BaseScore
    })

    if len(matched) > count {
        matched = matched[:count]
    }
    res := make([]*model.Post, len(matched))
    for i, m := range matched {
        res[i] = m.post
    }
    return res, nil
}
